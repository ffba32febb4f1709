package store

import (
	"fmt"
	"math"

	"binobj/bwire"
	"binobj/crypto"
	"binobj/record"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrSchemaMismatch = errors.New("stored schema does not match")
)

var (
	usersPrefix    = Prefixer("users")
	userDataPrefix = usersPrefix.Sub("user")
	schemaPrefix   = Prefixer("schemas")
)

// UserKey renders an id as the hex of its IEEE-754 bits, so that every
// float64 (including NaN and -0) has exactly one key.
func UserKey(id float64) string {
	return fmt.Sprintf("%016x", math.Float64bits(id))
}

// EnsureSchema records fingerprint under name on first use and fails with
// ErrSchemaMismatch if a different fingerprint was recorded before.
func EnsureSchema(db *leveldb.DB, name string, fingerprint crypto.Hash) error {
	return WithTx(db, func(tx *leveldb.Transaction) error {
		k := schemaPrefix(name)
		existing, err := tx.Get(k, nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			logger.Info("recording schema", "name", name, "fingerprint", fingerprint.String())
			return errors.Wrap(tx.Put(k, fingerprint.Bytes(), nil), "error writing schema")
		}
		if err != nil {
			return errors.Wrap(err, "error reading schema")
		}
		stored, err := crypto.NewHashFromBytes(existing)
		if err != nil {
			return errors.Wrap(err, "error parsing stored schema")
		}
		if !stored.Equal(fingerprint) {
			return errors.Wrapf(ErrSchemaMismatch, "%s: stored %s, have %s", name, stored, fingerprint)
		}
		return nil
	})
}

func PutUser(db *leveldb.DB, codec *bwire.ConfiguredCodec, user *record.User) error {
	buf, err := codec.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "error encoding user")
	}
	return PutUserBytes(db, user.ID, buf)
}

// PutUserBytes stores an already-encoded user. Callers are responsible for
// having validated buf.
func PutUserBytes(db *leveldb.DB, id float64, buf []byte) error {
	return WithTx(db, func(tx *leveldb.Transaction) error {
		if err := tx.Put(userDataPrefix(UserKey(id)), buf, nil); err != nil {
			return errors.Wrap(err, "error writing user")
		}
		return nil
	})
}

func GetUserBytes(db *leveldb.DB, id float64) ([]byte, error) {
	buf, err := db.Get(userDataPrefix(UserKey(id)), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "error reading user")
	}
	return buf, nil
}

func GetUser(db *leveldb.DB, codec *bwire.ConfiguredCodec, id float64) (*record.User, error) {
	buf, err := GetUserBytes(db, id)
	if err != nil {
		return nil, err
	}
	user, err := bwire.FromWith[record.User](codec, buf)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding stored user")
	}
	return user, nil
}

func DeleteUser(db *leveldb.DB, id float64) error {
	return WithTx(db, func(tx *leveldb.Transaction) error {
		k := userDataPrefix(UserKey(id))
		has, err := tx.Has(k, nil)
		if err != nil {
			return errors.Wrap(err, "error checking for user existence")
		}
		if !has {
			return ErrUserNotFound
		}
		return errors.Wrap(tx.Delete(k, nil), "error deleting user")
	})
}

type UserStream struct {
	codec *bwire.ConfiguredCodec
	iter  iterator.Iterator
}

// Next returns the next stored user, or nil once the stream is exhausted.
func (us *UserStream) Next() (*record.User, error) {
	if !us.iter.Next() {
		return nil, nil
	}
	user, err := bwire.FromWith[record.User](us.codec, us.iter.Value())
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding user at %s", us.iter.Key())
	}
	return user, nil
}

func (us *UserStream) Close() error {
	us.iter.Release()
	return us.iter.Error()
}

func StreamUsers(db *leveldb.DB, codec *bwire.ConfiguredCodec) (*UserStream, error) {
	iter := db.NewIterator(util.BytesPrefix(userDataPrefix()), nil)
	return &UserStream{
		codec: codec,
		iter:  iter,
	}, nil
}
