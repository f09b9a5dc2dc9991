//go:build pi
// +build pi

package nfc

// MFRC522 spec can be found here: https://www.nxp.com/docs/en/data-sheet/MFRC522.pdf

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/ecc1/spi"
	"github.com/jdevelop/golang-rpi-extras/rf522/commands"
	"github.com/jdevelop/gpio"
	rpio "github.com/jdevelop/gpio/rpi"
	log "github.com/sirupsen/logrus"
)

const (
	spiBus      = 0
	spiDevice   = 0
	spiSpeedHz  = 100000
	resetPin    = 22
	antennaGain = 7

	piccRequestIdle = 0x26
	piccSelectCL1   = 0x93
	piccSelectCL2   = 0x95
	cascadeTag      = 0x88
)

var stateLock sync.Mutex
var active bool

type rc522 struct {
	dev   *spi.Device
	reset gpio.Pin
	gain  int
	uid   string
}

// CreateReader opens the MFRC522 on the first SPI bus. Only one reader can be open at a time.
func CreateReader() (CardReader, error) {
	stateLock.Lock()
	defer stateLock.Unlock()
	if active {
		return nil, errors.New("reader already in use")
	}

	// the IRQ line is never used, presence is polled
	r, err := openRC522(spiBus, spiDevice, spiSpeedHz, resetPin)
	if err != nil {
		return nil, err
	}
	active = true
	log.Infof("MFRC522 ready on /dev/spidev%d.%d", spiBus, spiDevice)
	return r, nil
}

func (r *rc522) IsCardPresent() bool {
	uid, err := r.readCardID()
	if err != nil {
		if !errors.Is(err, ErrNoCard) {
			log.Debugf("error when reading card ID: %v", err)
		}
		r.uid = ""
		return false
	}
	r.uid = uid
	return true
}

func (r *rc522) ReadUID() string {
	return r.uid
}

func (r *rc522) Close() error {
	stateLock.Lock()
	active = false
	stateLock.Unlock()
	return r.dev.Close()
}

func openRC522(bus, device, speed, resetPinNo int) (*rc522, error) {
	dev, err := spi.Open(fmt.Sprintf("/dev/spidev%d.%d", bus, device), speed, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open spi device: %w", err)
	}
	if err := dev.SetLSBFirst(false); err != nil {
		dev.Close()
		return nil, err
	}
	if err := dev.SetBitsPerWord(8); err != nil {
		dev.Close()
		return nil, err
	}

	pin, err := rpio.OpenPin(resetPinNo, gpio.ModeOutput)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("could not open reset pin %d: %w", resetPinNo, err)
	}
	pin.Set()

	r := &rc522{dev: dev, reset: pin, gain: antennaGain}
	if err := r.init(); err != nil {
		dev.Close()
		return nil, err
	}
	return r, nil
}

func (r *rc522) readCardID() (string, error) {
	if err := r.init(); err != nil {
		return "", err
	}
	if err := r.request(); err != nil {
		return "", err
	}
	uid, err := r.anticollision()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(uid), nil
}

func (r *rc522) init() error {
	steps := []struct {
		reg int
		val byte
	}{
		{commands.CommandReg, commands.PCD_RESETPHASE},
		{0x2A, 0x8D}, // TModeReg
		{0x2B, 0x3E}, // TPrescalerReg
		{0x2D, 30},   // TReloadRegL
		{0x2C, 0},    // TReloadRegH
		{0x15, 0x40}, // TxASKReg
		{0x11, 0x3D}, // ModeReg
		{0x26, byte(r.gain) << 4},
	}
	for _, s := range steps {
		if err := r.writeReg(s.reg, s.val); err != nil {
			return err
		}
	}
	return r.antennaOn()
}

func (r *rc522) transfer(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	err := r.dev.Transfer(out)
	return out, err
}

func (r *rc522) writeReg(address int, data byte) error {
	_, err := r.transfer([]byte{(byte(address) << 1) & 0x7E, data})
	return err
}

func (r *rc522) readReg(address int) (byte, error) {
	rb, err := r.transfer([]byte{((byte(address) << 1) & 0x7E) | 0x80, 0})
	if err != nil {
		return 0, err
	}
	return rb[1], nil
}

func (r *rc522) setBits(address int, mask byte) error {
	current, err := r.readReg(address)
	if err != nil {
		return err
	}
	return r.writeReg(address, current|mask)
}

func (r *rc522) clearBits(address int, mask byte) error {
	current, err := r.readReg(address)
	if err != nil {
		return err
	}
	return r.writeReg(address, current&^mask)
}

func (r *rc522) antennaOn() error {
	current, err := r.readReg(commands.TxControlReg)
	if err != nil {
		return err
	}
	if current&0x03 == 0 {
		return r.setBits(commands.TxControlReg, 0x03)
	}
	return nil
}

// transceive sends data to the card through the FIFO and returns what came back, with the number of valid bits.
func (r *rc522) transceive(data []byte) ([]byte, int, error) {
	const irqEn, irqWait = 0x77, 0x30

	r.writeReg(commands.CommIEnReg, irqEn|0x80)
	r.clearBits(commands.CommIrqReg, 0x80)
	r.setBits(commands.FIFOLevelReg, 0x80)
	r.writeReg(commands.CommandReg, commands.PCD_IDLE)
	for _, v := range data {
		r.writeReg(commands.FIFODataReg, v)
	}
	r.writeReg(commands.CommandReg, commands.PCD_TRANSCEIVE)
	r.setBits(commands.BitFramingReg, 0x80)

	var irq byte
	i := 2000
	for ; i > 0; i-- {
		n, err := r.readReg(commands.CommIrqReg)
		if err != nil {
			return nil, -1, err
		}
		if n&(irqWait|1) != 0 {
			irq = n
			break
		}
	}
	r.clearBits(commands.BitFramingReg, 0x80)

	if i == 0 {
		return nil, -1, ErrNoCard
	}
	if e, err := r.readReg(commands.ErrorReg); err != nil {
		return nil, -1, err
	} else if e&0x1B != 0 {
		return nil, -1, fmt.Errorf("reader error register %02x", e)
	}
	if irq&irqEn&0x01 != 0 {
		return nil, -1, ErrNoCard
	}

	n, err := r.readReg(commands.FIFOLevelReg)
	if err != nil {
		return nil, -1, err
	}
	lastBits, err := r.readReg(commands.ControlReg)
	if err != nil {
		return nil, -1, err
	}
	lastBits &= 0x07
	bits := int(n) * 8
	if lastBits != 0 {
		bits = (int(n)-1)*8 + int(lastBits)
	}

	if n == 0 {
		n = 1
	}
	if n > 16 {
		n = 16
	}
	back := make([]byte, 0, n)
	for j := byte(0); j < n; j++ {
		b, err := r.readReg(commands.FIFODataReg)
		if err != nil {
			return nil, -1, err
		}
		back = append(back, b)
	}
	return back, bits, nil
}

// request wakes up idle cards in the field.
func (r *rc522) request() error {
	if err := r.writeReg(commands.BitFramingReg, 0x07); err != nil {
		return err
	}
	_, bits, err := r.transceive([]byte{piccRequestIdle})
	if err != nil {
		return ErrNoCard
	}
	if bits != 0x10 {
		return fmt.Errorf("wrong number of bits in ATQA: %d", bits)
	}
	return nil
}

// anticollision reads the 4 or 7 byte UID of the card that answered the request.
func (r *rc522) anticollision() ([]byte, error) {
	if err := r.writeReg(commands.BitFramingReg, 0x00); err != nil {
		return nil, err
	}

	first, err := r.selectLevel(piccSelectCL1)
	if err != nil {
		return nil, err
	}
	if first[0] != cascadeTag {
		return first[:4], nil
	}

	log.Debug("cascade level 2 required")
	cmd := []byte{piccSelectCL1, 0x70, first[0], first[1], first[2], first[3], first[4]}
	crc, err := r.crc(cmd)
	if err != nil {
		return nil, err
	}
	sak, _, err := r.transceive(append(cmd, crc[0], crc[1]))
	if err != nil {
		return nil, err
	}
	if len(sak) == 0 || sak[0] != 0x04 {
		return nil, fmt.Errorf("unexpected select response: %v", hex.EncodeToString(sak))
	}

	second, err := r.selectLevel(piccSelectCL2)
	if err != nil {
		return nil, err
	}

	uid := make([]byte, 7)
	copy(uid, first[1:4])
	copy(uid[3:], second[:4])
	return uid, nil
}

// selectLevel runs one anticollision round and returns the four UID bytes plus their check byte.
func (r *rc522) selectLevel(level byte) ([]byte, error) {
	back, _, err := r.transceive([]byte{level, 0x20})
	if err != nil {
		return nil, err
	}
	if len(back) != 5 {
		return nil, fmt.Errorf("expected 5 bytes from anticollision, got %d", len(back))
	}
	var bcc byte
	for _, v := range back[:4] {
		bcc ^= v
	}
	if bcc != back[4] {
		return nil, fmt.Errorf("BCC mismatch, expected %02x actual %02x", bcc, back[4])
	}
	return back, nil
}

func (r *rc522) crc(data []byte) ([2]byte, error) {
	var res [2]byte
	if err := r.clearBits(commands.DivIrqReg, 0x04); err != nil {
		return res, err
	}
	if err := r.setBits(commands.FIFOLevelReg, 0x80); err != nil {
		return res, err
	}
	for _, v := range data {
		r.writeReg(commands.FIFODataReg, v)
	}
	if err := r.writeReg(commands.CommandReg, commands.PCD_CALCCRC); err != nil {
		return res, err
	}
	for i := 0xFF; i > 0; i-- {
		n, err := r.readReg(commands.DivIrqReg)
		if err != nil {
			return res, err
		}
		if n&0x04 != 0 {
			break
		}
	}
	lsb, err := r.readReg(commands.CRCResultRegL)
	if err != nil {
		return res, err
	}
	msb, err := r.readReg(commands.CRCResultRegM)
	if err != nil {
		return res, err
	}
	res[0], res[1] = lsb, msb
	return res, nil
}
