package workload

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMissingIterations is returned when the input has no iterations
	// field.
	ErrMissingIterations = errors.New("missing iterations")
	// ErrMissingCode is returned when the input has no code field.
	ErrMissingCode = errors.New("missing code")
)

// Request is one benchmark: the bytecode and how many times to run it.
type Request struct {
	Code       []byte
	Iterations uint64
}

type wireRequest struct {
	Iterations *uint64 `json:"iterations"`
	Code       *string `json:"code"`
}

// Decode reads a request from the first line of r.
func Decode(r io.Reader) (Request, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Request{}, fmt.Errorf("read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return Request{}, fmt.Errorf("malformed input: empty")
	}

	var wire wireRequest
	if err := json.Unmarshal([]byte(line), &wire); err != nil {
		return Request{}, fmt.Errorf("malformed input: %w", err)
	}

	if wire.Iterations == nil {
		return Request{}, fmt.Errorf("malformed input: %w", ErrMissingIterations)
	}
	if wire.Code == nil {
		return Request{}, fmt.Errorf("malformed input: %w", ErrMissingCode)
	}

	code, err := hex.DecodeString(strings.TrimPrefix(*wire.Code, "0x"))
	if err != nil {
		return Request{}, fmt.Errorf("decode code: %w", err)
	}

	return Request{Code: code, Iterations: *wire.Iterations}, nil
}

// Encode writes req as a single input line.
func Encode(w io.Writer, req Request) error {
	code := "0x" + hex.EncodeToString(req.Code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(wireRequest{
		Iterations: &req.Iterations,
		Code:       &code,
	}); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	return nil
}
