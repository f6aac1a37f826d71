// internal/status/constants.go
package status

// Device Status Block layout constants.
// These values define the panel register map and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers in the status block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotPage holds the display page the panel should show.
const SlotPage = 0

// SlotTemperature holds the temperature in tenths of a degree (int16 bits).
const SlotTemperature = 1

// SlotSensorOK is 1 when the last sensor read succeeded.
const SlotSensorOK = 2

// SlotAlert is 1 while the temperature alert is active.
const SlotAlert = 3

// SlotLink holds the link state code.
const SlotLink = 4

// SlotLastErrorCode holds the last fault register code.
const SlotLastErrorCode = 5

// SlotMessagesSent holds the telemetry message count (saturating).
const SlotMessagesSent = 6

// SlotSecondsLinkDown holds how long the link has been retrying.
const SlotSecondsLinkDown = 7

// ---- RESERVED RANGE ----

// Slots 8–10 are reserved for future use.
const SlotReservedStart = 8
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- LINK CODES ----

// LinkUnknown represents the boot state before the first connect attempt.
const LinkUnknown uint16 = 0

// LinkConnected represents an up link.
const LinkConnected uint16 = 1

// LinkRetrying represents a down link waiting for its next reconnect.
const LinkRetrying uint16 = 2
