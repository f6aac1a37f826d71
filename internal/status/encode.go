// internal/status/encode.go
package status

import "math"

// Encode converts a Snapshot into a full device status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotPage] = uint16(s.Page)
	regs[SlotTemperature] = uint16(DeciCelsius(s.TemperatureC))
	regs[SlotSensorOK] = boolReg(s.SensorOK)
	regs[SlotAlert] = boolReg(s.Alert)
	regs[SlotLink] = s.Link
	regs[SlotLastErrorCode] = s.LastErrorCode

	// HARD INVARIANT: counters saturate, they MUST NOT wrap
	regs[SlotMessagesSent] = saturate(s.MessagesSent)
	regs[SlotSecondsLinkDown] = saturate(s.SecondsLinkDown)

	// Slots 8..10 are RESERVED → left as zero

	name := EncodeName(deviceName)
	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], name)

	return regs
}

// DeciCelsius converts to tenths of a degree, clamped to int16.
func DeciCelsius(c float64) int16 {
	v := math.Round(c * 10)
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

// EncodeName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

func boolReg(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func saturate(v uint64) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
