package bytesplit_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/bytesplit"
	"github.com/stewi1014/bytesplit/frame"
	"github.com/stewi1014/bytesplit/splitio"
)

type DeliciousCoffee struct {
	Blend    []byte
	MilkType []byte
	Size     uint16
}

func (c *DeliciousCoffee) Sip() string {
	return "Mmmm"
}

var coffeeSplitter = bytesplit.MustKwargifier(DeliciousCoffee{},
	bytesplit.NamedField{Name: "Blend", Schema: bytesplit.Variable},
	bytesplit.NamedField{Name: "MilkType", Schema: 13},
	bytesplit.NamedField{Name: "Size", Schema: bytesplit.Field{Type: reflect.TypeOf(uint16(0)), Length: 2}},
)

func coffeeAsBytes(blend, milkType string, size uint16) []byte {
	buff := frame.Encode([]byte(blend))
	buff = append(buff, milkType...)
	return append(buff, uint8(size>>8), uint8(size))
}

func TestKwargifiedCoffee(t *testing.T) {
	buff := coffeeAsBytes("Equal Exchange Mind, Body, and Soul", "local_oatmilk", 54453)

	built, err := coffeeSplitter.Build(buff)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	cupOfCoffee, ok := built.(*DeliciousCoffee)
	if !ok {
		t.Fatalf("built a %T, want a *DeliciousCoffee", built)
	}
	td.Cmp(t, cupOfCoffee.Blend, []byte("Equal Exchange Mind, Body, and Soul"))
	td.Cmp(t, cupOfCoffee.MilkType, []byte("local_oatmilk"))
	td.Cmp(t, cupOfCoffee.Size, uint16(54453))
	td.Cmp(t, cupOfCoffee.Sip(), "Mmmm")
}

func TestKwargifierExactConsumption(t *testing.T) {
	buff := coffeeAsBytes("Sandino Roasters Blend", "half_and_half", 16)

	_, err := coffeeSplitter.Build(append(buff, "dregs"...))
	if !errors.Is(err, splitio.ErrSizeMismatch) {
		t.Errorf("got %v, want %v", err, splitio.ErrSizeMismatch)
	}
}

func TestKwargifierSchemaErrors(t *testing.T) {
	testCases := []struct {
		desc   string
		target interface{}
		fields []bytesplit.NamedField
	}{
		{
			desc:   "not a struct target",
			target: 5,
			fields: []bytesplit.NamedField{{Name: "Blend", Schema: 5}},
		},
		{
			desc:   "empty schema",
			target: DeliciousCoffee{},
		},
		{
			desc:   "no such field",
			target: DeliciousCoffee{},
			fields: []bytesplit.NamedField{{Name: "Crema", Schema: 5}},
		},
		{
			desc:   "unassignable field",
			target: DeliciousCoffee{},
			fields: []bytesplit.NamedField{{Name: "Size", Schema: 2}},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := bytesplit.NewKwargifier(tC.target, tC.fields...)
			if !errors.Is(err, splitio.ErrBadType) {
				t.Errorf("got %v, want %v", err, splitio.ErrBadType)
			}
		})
	}
}

// PickyCoffee rejects sizes its menu doesn't have.
type PickyCoffee struct {
	Size uint16
}

func (c *PickyCoffee) ValidateFields() error {
	if c.Size > 20 {
		return errors.New("no cup that big")
	}
	return nil
}

func TestKwargifierValidation(t *testing.T) {
	picky := bytesplit.MustKwargifier(PickyCoffee{},
		bytesplit.NamedField{Name: "Size", Schema: bytesplit.Field{Type: reflect.TypeOf(uint16(0)), Length: 2}},
	)

	built, err := picky.Build([]byte{0, 16})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	td.Cmp(t, built.(*PickyCoffee).Size, uint16(16))

	_, err = picky.Build([]byte{0xd4, 0xb5})
	if !errors.Is(err, splitio.ErrConstruction) {
		t.Errorf("got %v, want %v", err, splitio.ErrConstruction)
	}
}
