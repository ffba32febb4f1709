package api

import (
	"io"
	"math"
	"net/http"
	"strconv"

	"binobj/bwire"
	"binobj/record"
	"binobj/store"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

var errUserBusy = errors.New("user is busy")

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
	Schema string `json:"schema"`
	Store  bool   `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, &healthResponse{
		Status: "ok",
		Schema: s.schema.String(),
		Store:  s.db != nil,
	})
}

// handleEcho decodes a user sent with the given content type and writes it
// back in the format negotiated from Accept, JSON by default. With
// ?persist=true and a store configured the user is also saved.
func (s *Server) handleEcho(contentType string) http.HandlerFunc {
	in := s.codecs.ForContentType(contentType)
	return func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" && s.codecs.ForContentType(ct) != in {
			s.writeError(w, http.StatusUnsupportedMediaType, errors.Errorf("expected %s, got %s", contentType, ct))
			return
		}
		body, ok := s.readBody(w, r)
		if !ok {
			return
		}
		user, err := s.decodeUser(in, body)
		if err != nil {
			s.metrics.RecordCodecError(in.Name())
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.metrics.RecordDecoded(in.Name(), len(body))

		if r.URL.Query().Get("persist") == "true" {
			if s.db == nil {
				s.writeError(w, http.StatusServiceUnavailable, errors.New("store is disabled"))
				return
			}
			key := store.UserKey(user.ID)
			if !s.userLocker.TryLock(key) {
				s.writeError(w, http.StatusConflict, errUserBusy)
				return
			}
			err := store.PutUser(s.db, s.codec, user)
			s.userLocker.Unlock(key)
			if err != nil {
				s.writeError(w, http.StatusInternalServerError, err)
				return
			}
		}

		out := s.codecs.ForContentType(r.Header.Get("Accept"))
		if out == nil {
			out = s.codecs.ForName("json")
		}
		res, err := out.Marshal(user)
		if err != nil {
			s.writeError(w, http.StatusUnprocessableEntity, errors.Wrapf(err, "user cannot be represented as %s", out.Name()))
			return
		}
		s.metrics.RecordEncoded(out.Name(), len(res))
		w.Header().Set("Content-Type", out.ContentType())
		w.WriteHeader(http.StatusOK)
		w.Write(res)
	}
}

func (s *Server) handlePutUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	user, err := bwire.FromWith[record.User](s.codec, body)
	if err != nil {
		s.metrics.RecordCodecError("buf")
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if math.Float64bits(user.ID) != math.Float64bits(id) {
		s.writeError(w, http.StatusBadRequest, errors.Errorf("body id %v does not match path id %v", user.ID, id))
		return
	}
	s.metrics.RecordDecoded("buf", len(body))
	key := store.UserKey(id)
	if !s.userLocker.TryLock(key) {
		s.writeError(w, http.StatusConflict, errUserBusy)
		return
	}
	defer s.userLocker.Unlock(key)
	if err := store.PutUserBytes(s.db, id, body); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	key := store.UserKey(id)
	if !s.userLocker.TryRLock(key) {
		s.writeError(w, http.StatusConflict, errUserBusy)
		return
	}
	buf, err := store.GetUserBytes(s.db, id)
	s.userLocker.RUnlock(key)
	if errors.Is(err, store.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.RecordEncoded("buf", len(buf))
	w.Header().Set("Content-Type", ContentTypeBinary)
	w.WriteHeader(http.StatusOK)
	w.Write(buf)
}

// handleListUsers writes every stored user as a JSON or CBOR array. The
// binary format has no list framing, so asking for it yields 406.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	out := s.codecs.ForName("json")
	if accept := r.Header.Get("Accept"); accept != "" && accept != "*/*" {
		out = s.codecs.ForContentType(accept)
	}
	if out == nil || out.ContentType() == ContentTypeBinary {
		s.writeError(w, http.StatusNotAcceptable, errors.New("users can be listed as json or cbor"))
		return
	}

	stream, err := store.StreamUsers(s.db, s.codec)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	users := make([]*record.User, 0)
	for {
		user, err := stream.Next()
		if err != nil {
			stream.Close()
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		if user == nil {
			break
		}
		users = append(users, user)
	}
	if err := stream.Close(); err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.Wrap(err, "error iterating users"))
		return
	}

	res, err := out.Marshal(users)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, errors.Wrapf(err, "users cannot be represented as %s", out.Name()))
		return
	}
	s.metrics.RecordEncoded(out.Name(), len(res))
	w.Header().Set("Content-Type", out.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(res)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	key := store.UserKey(id)
	if !s.userLocker.TryLock(key) {
		s.writeError(w, http.StatusConflict, errUserBusy)
		return
	}
	err = store.DeleteUser(s.db, id)
	s.userLocker.Unlock(key)
	if errors.Is(err, store.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeUser(c Codec, body []byte) (*record.User, error) {
	if c.ContentType() == ContentTypeBinary {
		return bwire.FromWith[record.User](s.codec, body)
	}
	user := new(record.User)
	if err := c.Unmarshal(body, user); err != nil {
		return nil, errors.Wrapf(err, "error decoding %s body", c.Name())
	}
	return user, nil
}

// readBody writes the error response itself and reports whether the caller
// may continue.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err == nil {
		return body, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeError(w, http.StatusRequestEntityTooLarge, errors.Errorf("body exceeds %d bytes", tooLarge.Limit))
		return nil, false
	}
	s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "error reading body"))
	return nil, false
}

func parseID(r *http.Request) (float64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		s.lgr.Error("error marshaling response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(code)
	w.Write(b)
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.lgr.Error("request failed", "status", code, "err", err)
	} else {
		s.lgr.Debug("request rejected", "status", code, "err", err)
	}
	s.writeJSON(w, code, &errorResponse{Error: err.Error()})
}
