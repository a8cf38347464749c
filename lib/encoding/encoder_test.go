package encoding

import (
	"errors"
	"strings"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	c := NewCodec([]byte("test-key"))

	calls := []Call{
		{Function: "saveItem", Args: []any{int8(42), "hello"}},
		{Function: "refresh"},
		{Function: "setFlags", Args: []any{true, false}},
	}

	for _, call := range calls {
		t.Run(call.Function, func(t *testing.T) {
			encoded, err := c.Encode(call)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			decoded, err := c.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if decoded.Function != call.Function {
				t.Errorf("Function = %q, want %q", decoded.Function, call.Function)
			}
			if len(decoded.Args) != len(call.Args) {
				t.Errorf("Args len = %d, want %d", len(decoded.Args), len(call.Args))
			}
		})
	}
}

func TestCodecRejectsTampering(t *testing.T) {
	c := NewCodec([]byte("test-key"))
	encoded, err := c.Encode(Call{Function: "deleteAll"})
	if err != nil {
		t.Fatal(err)
	}

	// Flip a payload character.
	tampered := encoded
	if tampered[0] == 'A' {
		tampered = "B" + tampered[1:]
	} else {
		tampered = "A" + tampered[1:]
	}

	if _, err := c.Decode(tampered); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Decode(tampered) error = %v, want ErrSignatureInvalid", err)
	}
}

func TestCodecRejectsWrongKey(t *testing.T) {
	encoded, err := NewCodec([]byte("key-one")).Encode(Call{Function: "x"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewCodec([]byte("key-two")).Decode(encoded); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Decode() with wrong key error = %v, want ErrSignatureInvalid", err)
	}
}

func TestCodecInvalidFormat(t *testing.T) {
	c := NewCodec([]byte("test-key"))

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no signature separator", "YWJj"},
		{"bad base64 payload", "!!!.c2ln"},
		{"bad base64 signature", "YWJj.!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decode(tt.input); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalidFormat", tt.input, err)
			}
		})
	}
}

func TestCodecOutputShape(t *testing.T) {
	c := NewCodec([]byte("test-key"))
	encoded, err := c.Encode(Call{Function: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(encoded, ".") != 1 {
		t.Errorf("encoded form %q should be payload.signature", encoded)
	}
}
