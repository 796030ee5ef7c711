//go:build linux

package alsa

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// maxCards bounds card enumeration. The kernel supports at most 32
// sound cards, numbered sparsely after removals.
const maxCards = 32

// Card identifies one sound card.
type Card struct {
	Number   int
	ID       string
	Driver   string
	Name     string
	LongName string
	Mixer    string
}

// PCM describes one PCM device on a card.
type PCM struct {
	Card       int
	Device     int
	ID         string
	Name       string
	Subdevices int
	HwName     string
}

// HwName formats the ALSA device string for a card and device number.
func HwName(card, device int) string {
	return fmt.Sprintf("hw:%d,%d", card, device)
}

// CardInfo queries the identity of one sound card through its control
// node.
func CardInfo(card int) (Card, error) {
	fd, err := sysOpen(fmt.Sprintf("/dev/snd/controlC%d", card), unix.O_RDONLY)
	if err != nil {
		return Card{}, fmt.Errorf("open control node for card %d: %w", card, err)
	}
	defer func() { _ = sysClose(fd) }()

	var info sndCtlCardInfo
	if err := sysIoctl(fd, sndrvCtlIoctlCardInfo, unsafe.Pointer(&info)); err != nil {
		return Card{}, fmt.Errorf("query card %d info: %w", card, err)
	}

	return Card{
		Number:   int(info.card),
		ID:       cstr(info.id[:]),
		Driver:   cstr(info.driver[:]),
		Name:     cstr(info.name[:]),
		LongName: cstr(info.longname[:]),
		Mixer:    cstr(info.mixername[:]),
	}, nil
}

// Cards returns all sound cards present on the system. Cards whose
// control node cannot be opened or queried are skipped.
func Cards() []Card {
	var cards []Card
	for num := 0; num < maxCards; num++ {
		card, err := CardInfo(num)
		if err != nil {
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// PCMs returns the PCM devices on a card for the given stream
// direction, StreamCapture or StreamPlayback.
func PCMs(card, stream int) ([]PCM, error) {
	fd, err := sysOpen(fmt.Sprintf("/dev/snd/controlC%d", card), unix.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("open control node for card %d: %w", card, err)
	}
	defer func() { _ = sysClose(fd) }()

	var pcms []PCM
	device := int32(-1)
	for {
		if err := sysIoctl(fd, sndrvCtlIoctlPCMNextDevice, unsafe.Pointer(&device)); err != nil {
			return nil, fmt.Errorf("enumerate PCM devices on card %d: %w", card, err)
		}
		if device < 0 {
			break
		}

		info := sndPCMInfo{
			device: uint32(device),
			stream: int32(stream),
		}
		if err := sysIoctl(fd, sndrvCtlIoctlPCMInfo, unsafe.Pointer(&info)); err != nil {
			// Device does not support this stream direction.
			continue
		}

		pcms = append(pcms, PCM{
			Card:       card,
			Device:     int(device),
			ID:         cstr(info.id[:]),
			Name:       cstr(info.name[:]),
			Subdevices: int(info.subdevicesCount),
			HwName:     HwName(card, int(device)),
		})
	}
	return pcms, nil
}
