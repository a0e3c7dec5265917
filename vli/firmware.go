// Package vli provides the VIA Labs device kinds and the firmware variants that
// carry one.
//
// The device kind is decided by whoever detects the hardware and is fixed when
// the firmware value is constructed:
//
//	fw := vli.NewPDFirmware(vli.KindVL103)
//	if _, err := fw.Parse(data, 0, 0, firmware.FlagNone); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(fw.Kind(), fw.Image.Size())
package vli

import (
	"fmt"

	"github.com/moffa90/go-fwimage/firmware"
)

// PDFirmware is a firmware image for a VIA Labs USB Power Delivery controller.
type PDFirmware struct {
	*firmware.Image
	kind DeviceKind
}

// NewPDFirmware returns an empty PD firmware for the given device kind.
func NewPDFirmware(kind DeviceKind) *PDFirmware {
	return &PDFirmware{Image: firmware.New(), kind: kind}
}

// Kind returns the device kind the firmware was created for.
func (fw *PDFirmware) Kind() DeviceKind {
	return fw.kind
}

// Parse loads data as the raw PD payload. The kind is left unchanged.
func (fw *PDFirmware) Parse(data []byte, addrStart, addrEnd uint64, flags firmware.Flags) (*firmware.Image, error) {
	if fam := fw.kind.Family(); fam != FamilyPD && !flags.Has(firmware.FlagForce) {
		return nil, fmt.Errorf("device kind %s is not a PD controller (%s)", fw.kind, fam)
	}
	img, err := firmware.Raw{}.Parse(data, addrStart, addrEnd, flags)
	if err != nil {
		return nil, err
	}
	fw.Image = img
	return img, nil
}

// USBHubFirmware is a firmware image for a VIA Labs USB hub controller.
type USBHubFirmware struct {
	*firmware.Image
	kind DeviceKind
}

// NewUSBHubFirmware returns an empty hub firmware for the given device kind.
func NewUSBHubFirmware(kind DeviceKind) *USBHubFirmware {
	return &USBHubFirmware{Image: firmware.New(), kind: kind}
}

// Kind returns the device kind the firmware was created for.
func (fw *USBHubFirmware) Kind() DeviceKind {
	return fw.kind
}

// Parse loads data as the raw hub payload. The kind is left unchanged.
func (fw *USBHubFirmware) Parse(data []byte, addrStart, addrEnd uint64, flags firmware.Flags) (*firmware.Image, error) {
	if fam := fw.kind.Family(); fam != FamilyUSBHub && !flags.Has(firmware.FlagForce) {
		return nil, fmt.Errorf("device kind %s is not a USB hub (%s)", fw.kind, fam)
	}
	img, err := firmware.Raw{}.Parse(data, addrStart, addrEnd, flags)
	if err != nil {
		return nil, err
	}
	fw.Image = img
	return img, nil
}
