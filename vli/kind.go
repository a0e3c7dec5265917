package vli

import (
	"fmt"
	"strings"
)

// DeviceKind identifies a VIA Labs hardware family.
// The set is closed; Kinds lists every value.
type DeviceKind uint32

// Device kinds. The values are the chip identifiers used in VIA Labs firmware
// headers, so they must not be renumbered.
const (
	KindUnknown  DeviceKind = 0x0000
	KindVL100    DeviceKind = 0x0100
	KindVL101    DeviceKind = 0x0101
	KindVL102    DeviceKind = 0x0102
	KindVL103    DeviceKind = 0x0103
	KindVL104    DeviceKind = 0x0104
	KindVL105    DeviceKind = 0x0105
	KindVL107    DeviceKind = 0x0107
	KindVL120    DeviceKind = 0x0120
	KindVL210    DeviceKind = 0x0210
	KindVL211    DeviceKind = 0x0211
	KindVL212    DeviceKind = 0x0212
	KindVL650    DeviceKind = 0x0650
	KindVL810    DeviceKind = 0x0810
	KindVL811    DeviceKind = 0x0811
	KindVL811PB0 DeviceKind = 0xA811
	KindVL811PB3 DeviceKind = 0xB811
	KindVL812B0  DeviceKind = 0xA812
	KindVL812B3  DeviceKind = 0xB812
	KindVL812Q4S DeviceKind = 0xC812
	KindVL813    DeviceKind = 0x0813
	KindVL815    DeviceKind = 0x0815
	KindVL817    DeviceKind = 0x0817
	KindVL819    DeviceKind = 0x0819
	KindVL820Q7  DeviceKind = 0xA820
	KindVL820Q8  DeviceKind = 0xB820
	KindMSP430   DeviceKind = 0xF430
	KindPS186    DeviceKind = 0xF186
	KindRTD21XX  DeviceKind = 0xFF00
)

// kinds is every DeviceKind in declaration order.
var kinds = []DeviceKind{
	KindUnknown,
	KindVL100, KindVL101, KindVL102, KindVL103, KindVL104, KindVL105, KindVL107,
	KindVL120,
	KindVL210, KindVL211, KindVL212,
	KindVL650,
	KindVL810, KindVL811, KindVL811PB0, KindVL811PB3,
	KindVL812B0, KindVL812B3, KindVL812Q4S,
	KindVL813, KindVL815, KindVL817, KindVL819,
	KindVL820Q7, KindVL820Q8,
	KindMSP430, KindPS186, KindRTD21XX,
}

// Kinds returns every known DeviceKind, KindUnknown first.
func Kinds() []DeviceKind {
	out := make([]DeviceKind, len(kinds))
	copy(out, kinds)
	return out
}

// String returns the lower-case chip name, e.g. "vl103".
func (k DeviceKind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindVL100:
		return "vl100"
	case KindVL101:
		return "vl101"
	case KindVL102:
		return "vl102"
	case KindVL103:
		return "vl103"
	case KindVL104:
		return "vl104"
	case KindVL105:
		return "vl105"
	case KindVL107:
		return "vl107"
	case KindVL120:
		return "vl120"
	case KindVL210:
		return "vl210"
	case KindVL211:
		return "vl211"
	case KindVL212:
		return "vl212"
	case KindVL650:
		return "vl650"
	case KindVL810:
		return "vl810"
	case KindVL811:
		return "vl811"
	case KindVL811PB0:
		return "vl811pb0"
	case KindVL811PB3:
		return "vl811pb3"
	case KindVL812B0:
		return "vl812b0"
	case KindVL812B3:
		return "vl812b3"
	case KindVL812Q4S:
		return "vl812q4s"
	case KindVL813:
		return "vl813"
	case KindVL815:
		return "vl815"
	case KindVL817:
		return "vl817"
	case KindVL819:
		return "vl819"
	case KindVL820Q7:
		return "vl820q7"
	case KindVL820Q8:
		return "vl820q8"
	case KindMSP430:
		return "msp430"
	case KindPS186:
		return "ps186"
	case KindRTD21XX:
		return "rtd21xx"
	default:
		return fmt.Sprintf("kind(0x%04X)", uint32(k))
	}
}

// ParseDeviceKind returns the kind with the given name, case-insensitively.
func ParseDeviceKind(name string) (DeviceKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown device kind %q", name)
}

// Family is the product line a DeviceKind belongs to.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyPD
	FamilyUSBHub
	FamilyPCIe
	FamilyCompanion
)

func (f Family) String() string {
	switch f {
	case FamilyPD:
		return "pd"
	case FamilyUSBHub:
		return "usbhub"
	case FamilyPCIe:
		return "pcie"
	case FamilyCompanion:
		return "companion"
	default:
		return "unknown"
	}
}

// Family returns the product line of k.
func (k DeviceKind) Family() Family {
	switch k {
	case KindVL100, KindVL101, KindVL102, KindVL103, KindVL104, KindVL105, KindVL107:
		return FamilyPD
	case KindVL120, KindVL210, KindVL211, KindVL212,
		KindVL810, KindVL811, KindVL811PB0, KindVL811PB3,
		KindVL812B0, KindVL812B3, KindVL812Q4S,
		KindVL813, KindVL815, KindVL817, KindVL819:
		return FamilyUSBHub
	case KindVL650, KindVL820Q7, KindVL820Q8:
		return FamilyPCIe
	case KindMSP430, KindPS186, KindRTD21XX:
		return FamilyCompanion
	case KindUnknown:
		return FamilyUnknown
	default:
		return FamilyUnknown
	}
}
