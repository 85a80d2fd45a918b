package splitio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stewi1014/bytesplit/splitio"
)

func TestErrorWrapping(t *testing.T) {
	kinds := []error{
		splitio.ErrSizeMismatch,
		splitio.ErrBadCall,
		splitio.ErrBadType,
		splitio.ErrConstruction,
		splitio.ErrUnresolved,
	}

	for _, kind := range kinds {
		t.Run(kind.Error(), func(t *testing.T) {
			err := splitio.NewError(kind, "extra information")

			if !errors.Is(err, kind) {
				t.Errorf("%v does not match its kind %v", err, kind)
			}

			var wrapper splitio.Error
			if !errors.As(err, &wrapper) {
				t.Fatalf("%v is not a splitio.Error", err)
			}
			if wrapper.Message != "extra information" {
				t.Errorf("message %q lost", wrapper.Message)
			}
			if !strings.Contains(wrapper.Caller, "TestErrorWrapping") {
				t.Errorf("caller %q; want the calling test function", wrapper.Caller)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := splitio.Error{
		Err:     splitio.ErrSizeMismatch,
		Message: "want 5 bytes",
		Caller:  "caller",
	}

	want := "caller: size mismatch (want 5 bytes)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
