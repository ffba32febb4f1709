package record

import (
	"math/rand"
	"strconv"
	"strings"

	"binobj/bwire"

	"github.com/pkg/errors"
)

const (
	FieldID         = "id"
	FieldFirstName  = "firstName"
	FieldSecondName = "secondName"
)

type User struct {
	ID         float64 `json:"id" cbor:"id"`
	FirstName  string  `json:"firstName" cbor:"firstName"`
	SecondName string  `json:"secondName" cbor:"secondName"`
}

var _ bwire.Record = (*User)(nil)

func NewUser(id float64, firstName string, secondName string) *User {
	return &User{
		ID:         id,
		FirstName:  firstName,
		SecondName: secondName,
	}
}

func (u *User) Fields() bwire.Fields {
	return bwire.Fields{
		FieldID:         &u.ID,
		FieldFirstName:  &u.FirstName,
		FieldSecondName: &u.SecondName,
	}
}

func (u *User) DeclareEncode(s *bwire.Schema) error {
	s.Number(FieldID)
	s.String(FieldFirstName)
	s.String(FieldSecondName)
	return s.Err()
}

func (u *User) DeclareDecode(s *bwire.Schema) error {
	s.Number(FieldID)
	s.String(FieldFirstName)
	s.String(FieldSecondName)
	return s.Err()
}

func (u *User) ToBuffer() ([]byte, error) {
	return bwire.Marshal(u)
}

func (u *User) FromBuffer(buf []byte) error {
	return bwire.Unmarshal(buf, u)
}

// Equals compares field by field. Numeric fields compare by bit pattern so
// that NaN equals NaN and -0 differs from 0.
func (u *User) Equals(other *User) bool {
	if other == nil {
		return false
	}
	return sameNumber(u.ID, other.ID) &&
		u.FirstName == other.FirstName &&
		u.SecondName == other.SecondName
}

// UserSchema returns the decode schema of a User, used to fingerprint what a
// server expects. User's declarations are fixed, so a failure panics.
func UserSchema() *bwire.Schema {
	u := new(User)
	s := bwire.NewSchema(u)
	if err := u.DeclareDecode(s); err != nil {
		panic(errors.Wrap(err, "invalid User declarations"))
	}
	return s
}

// RandomUser builds a user the way the benchmark harness does: an integer id
// below one billion and decimal digit names of strLen characters.
func RandomUser(rng *rand.Rand, strLen int) *User {
	return &User{
		ID:         float64(rng.Int63n(1_000_000_000)),
		FirstName:  randomDigits(rng, strLen),
		SecondName: randomDigits(rng, strLen),
	}
}

func randomDigits(rng *rand.Rand, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteString(strconv.Itoa(rng.Intn(10)))
	}
	return sb.String()
}
