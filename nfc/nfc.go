package nfc

import (
	"errors"
	"io"
)

// ErrNoCard is returned by the low level reads when nothing answers the request.
var ErrNoCard = errors.New("no card detected")

// CardReader checks for a card in the field and returns the UID of the card last seen. A card only counts as
// present when its UID could be read, so ReadUID after a positive IsCardPresent never touches the hardware.
type CardReader interface {
	io.Closer
	IsCardPresent() bool
	ReadUID() string
}
