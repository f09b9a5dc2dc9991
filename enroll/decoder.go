package enroll

// Request is an enrollment request received from the link. The payload is forwarded as is.
type Request struct {
	Payload string
}

// Decoder turns a raw request line into a Request. Decryption of the payload belongs here, not in the workflow.
type Decoder interface {
	Decode(payload string) (Request, error)
}

// DecodeFunc is the func form of Decoder.
type DecodeFunc func(payload string) (Request, error)

// Decode implements Decoder.
func (f DecodeFunc) Decode(payload string) (Request, error) {
	return f(payload)
}

// Opaque keeps the payload untouched.
var Opaque Decoder = DecodeFunc(func(payload string) (Request, error) {
	return Request{Payload: payload}, nil
})
