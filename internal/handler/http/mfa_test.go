package http

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soclink/authcore/models"
)

const testMFASecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

// totpNow derives the current one-time code for secret, the same way an
// authenticator app would.
func totpNow(t *testing.T, secret string) string {
	t.Helper()

	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	require.NoError(t, err)

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(time.Now().Unix())/30)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	code := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
	return fmt.Sprintf("%06d", code%1_000_000)
}

func TestMFAVerifyRoute_Success(t *testing.T) {
	f := newFixture(t)
	f.credentials.EXPECT().FindByUsernameOrEmail(gomock.Any(), "alice").Return(aliceAccount(), nil)
	f.secrets.EXPECT().SecretFor(gomock.Any(), int64(1)).Return(testMFASecret, nil)

	rec := f.do(t, http.MethodPost, "/api/auth/mfa/verify", "",
		models.MFAVerifyRequest{Username: "alice", Code: totpNow(t, testMFASecret)})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestMFAVerifyRoute_WrongCode401(t *testing.T) {
	f := newFixture(t)
	f.credentials.EXPECT().FindByUsernameOrEmail(gomock.Any(), "alice").Return(aliceAccount(), nil)
	f.secrets.EXPECT().SecretFor(gomock.Any(), int64(1)).Return(testMFASecret, nil)

	rec := f.do(t, http.MethodPost, "/api/auth/mfa/verify", "",
		models.MFAVerifyRequest{Username: "alice", Code: "000000"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMFAVerifyRoute_ReplayedCode401(t *testing.T) {
	f := newFixture(t)
	f.credentials.EXPECT().FindByUsernameOrEmail(gomock.Any(), "alice").Return(aliceAccount(), nil).Times(2)
	f.secrets.EXPECT().SecretFor(gomock.Any(), int64(1)).Return(testMFASecret, nil).Times(2)

	code := totpNow(t, testMFASecret)
	body := models.MFAVerifyRequest{Username: "alice", Code: code}

	rec := f.do(t, http.MethodPost, "/api/auth/mfa/verify", "", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/mfa/verify", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMFAEnrollRoute_ReturnsSecret(t *testing.T) {
	f := newFixture(t)
	token := f.sessionFor(t, 1)
	f.secrets.EXPECT().SaveSecret(gomock.Any(), int64(1), gomock.Any()).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/auth/mfa/enroll", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["secret"])
}

func TestMFAEnrollRoute_NoToken401(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/mfa/enroll", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
