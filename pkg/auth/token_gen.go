package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"aquamon.io/water-quality-service/pkg/models"
)

// Password reset tokens are single use by construction: the HMAC covers the
// password hash and last login, so using the token (or logging in) invalidates
// any outstanding one.

var (
	resetSalt = []byte("aquamon.pkg.auth.token_gen")

	// PasswordResetTimeout bounds how long a reset link stays valid.
	PasswordResetTimeout = 24 * time.Hour

	NowFunc = time.Now // mockable

	ErrResetTokenInvalid = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token expired")
)

// EncodeUID base64 encodes a user ID for embedding in a reset URL.
func EncodeUID(usr *models.User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(usr.ID), 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uint, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, ErrResetTokenInvalid
	}
	id, err := strconv.ParseUint(string(idBytes), 10, 64)
	if err != nil {
		return 0, ErrResetTokenInvalid
	}
	return uint(id), nil
}

// MakeResetToken generates a password reset token for the given user.
func MakeResetToken(usr *models.User) (string, error) {
	return makeTokenWithTimestamp(usr, numDaysSince2001(NowFunc()))
}

// VerifyResetToken checks a reset token against the user it claims to be for.
func VerifyResetToken(usr *models.User, token string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return ErrResetTokenInvalid
	}

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return ErrResetTokenInvalid
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return ErrResetTokenInvalid
	}

	// tamper check
	newToken, err := makeTokenWithTimestamp(usr, ts)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(newToken), []byte(token)) == 0 {
		return ErrResetTokenInvalid
	}

	if (numDaysSince2001(NowFunc()) - ts) > int(PasswordResetTimeout/(24*time.Hour)) {
		return ErrResetTokenExpired
	}
	return nil
}

func makeTokenWithTimestamp(usr *models.User, ts int) (string, error) {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	sig, err := sign(hashValue(usr, ts))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", tsB32, sig), nil
}

func numDaysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func sign(val []byte) (string, error) {
	key := sha256.Sum256(append(resetSalt, secretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(val); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

func hashValue(usr *models.User, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(strconv.FormatUint(uint64(usr.ID), 10))
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.String())
	}
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
