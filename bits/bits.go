// Package bits holds packed input vectors and loads them from bit files: a
// run of 0/1 characters, one per declared input port, with whitespace and
// commas ignored.
package bits

import (
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/mgo.v2/bson"
)

type Vector struct {
	Size   int
	Fields []byte
}

func New(size int) *Vector {
	// A vector of size 0 is meaningless.
	if size <= 0 {
		panic("seeking an empty bit vector")
	}

	// 8 bits per byte.
	numbytes := (size-1)/8 + 1

	return &Vector{
		Size:   size,
		Fields: make([]byte, numbytes),
	}
}

func (v *Vector) locate(pos int) (byt int, bit uint8) {
	byt = pos >> 3
	bit = uint8(pos & 0x7)
	return
}

func (v *Vector) Set(pos int) {
	if pos < 0 || pos >= v.Size {
		panic("bit position out of range")
	}
	byt, bit := v.locate(pos)
	v.Fields[byt] |= 1 << bit
}

func (v *Vector) Unset(pos int) {
	if pos < 0 || pos >= v.Size {
		panic("bit position out of range")
	}
	byt, bit := v.locate(pos)
	v.Fields[byt] &= ^(1 << bit)
}

func (v *Vector) Get(pos int) bool {
	if pos < 0 || pos >= v.Size {
		panic("bit position out of range")
	}
	byt, bit := v.locate(pos)
	return v.Fields[byt]&(1<<bit) != 0
}

// String renders the vector as the 0/1 run it was loaded from.
func (v *Vector) String() string {
	var b strings.Builder
	for i := 0; i < v.Size; i++ {
		if v.Get(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Load reads a bit file from r. After stripping whitespace and commas the
// remaining characters must be exactly size 0/1 digits.
func Load(r io.Reader, size int) (*Vector, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read bits")
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' {
			return -1
		}
		return r
	}, string(raw))

	if len(cleaned) != size {
		return nil, errors.Errorf("bit-count mismatch (expected %d, got %d)", size, len(cleaned))
	}

	v := New(size)
	for i, c := range cleaned {
		switch c {
		case '0':
		case '1':
			v.Set(i)
		default:
			return nil, errors.Errorf("bit %d: invalid character %q", i, c)
		}
	}
	return v, nil
}

// Assign maps the vector onto port names: the i-th bit becomes the value of
// the i-th port.
func (v *Vector) Assign(ports []string) (map[string]bool, error) {
	if len(ports) != v.Size {
		return nil, errors.Errorf("bit-count mismatch (expected %d, got %d)", len(ports), v.Size)
	}
	in := make(map[string]bool, len(ports))
	for i, p := range ports {
		in[p] = v.Get(i)
	}
	return in, nil
}

// GetBSON makes Vector implement bson.Getter: it is saved as the 0/1 run.
func (v Vector) GetBSON() (interface{}, error) {
	return v.String(), nil
}

// SetBSON makes Vector implement bson.Setter.
func (v *Vector) SetBSON(raw bson.Raw) error {
	var str string
	if err := raw.Unmarshal(&str); err != nil {
		return err
	}
	w, err := Load(strings.NewReader(str), len(str))
	if err != nil {
		return err
	}
	*v = *w
	return nil
}
