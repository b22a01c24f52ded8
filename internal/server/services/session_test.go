package services

import (
	"context"
	"testing"
	"time"

	"github.com/fu050409/bronya/internal/common"
	"github.com/fu050409/bronya/internal/server/auth"
	"github.com/fu050409/bronya/internal/server/models"
)

func TestSessionService_GenerateAndRefresh(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{s: &fakeSessionsRepo{}}
	_, ss := newServices(t, db, rm)

	session, err := ss.Generate("acc-1", "d1")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if session.ID != "d1" || session.AccountID != "acc-1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Key == "" {
		t.Fatalf("expected a signing key")
	}
	if err := auth.ValidateToken(session.Token, []byte(session.Key)); err != nil {
		t.Fatalf("initial token must validate against the session key: %v", err)
	}

	keyBefore := session.Key
	tokenBefore := session.Token

	if err := ss.Refresh(session); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if session.Key != keyBefore {
		t.Fatalf("refresh must not rotate the key")
	}
	if session.Token == tokenBefore {
		t.Fatalf("refresh must issue a new token")
	}

	// The key did not rotate, so the pre-refresh token still validates.
	if err := auth.ValidateToken(tokenBefore, []byte(session.Key)); err != nil {
		t.Fatalf("old token must stay valid after refresh: %v", err)
	}
}

func TestSessionService_IsValid(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	key := "stored-session-key"
	token, err := auth.GenerateToken("acc-1", "d1", []byte(key), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	expired, err := auth.GenerateToken("acc-1", "d1", []byte(key), -time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	forged, err := auth.GenerateToken("acc-1", "d1", []byte("other-key"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	session := &models.Session{ID: "d1", AccountID: "acc-1", Key: key, Token: token}

	tests := []struct {
		name   string
		repo   *fakeSessionsRepo
		creds  models.Credentials
		want   bool
	}{
		{
			name:  "all checks pass",
			repo:  &fakeSessionsRepo{getOut: session},
			creds: models.Credentials{UserID: "acc-1", Username: "alice01", Token: token, DeviceID: "d1"},
			want:  true,
		},
		{
			name:  "no session for device",
			repo:  &fakeSessionsRepo{getErr: common.ErrorNotFound},
			creds: models.Credentials{UserID: "acc-1", Token: token, DeviceID: "ghost"},
			want:  false,
		},
		{
			name:  "account mismatch",
			repo:  &fakeSessionsRepo{getOut: session},
			creds: models.Credentials{UserID: "acc-2", Token: token, DeviceID: "d1"},
			want:  false,
		},
		{
			name:  "forged token",
			repo:  &fakeSessionsRepo{getOut: session},
			creds: models.Credentials{UserID: "acc-1", Token: forged, DeviceID: "d1"},
			want:  false,
		},
		{
			name:  "expired token",
			repo:  &fakeSessionsRepo{getOut: session},
			creds: models.Credentials{UserID: "acc-1", Token: expired, DeviceID: "d1"},
			want:  false,
		},
		{
			name:  "malformed token",
			repo:  &fakeSessionsRepo{getOut: session},
			creds: models.Credentials{UserID: "acc-1", Token: "garbage", DeviceID: "d1"},
			want:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rm := &fakeRepoManager{s: tt.repo}
			_, ss := newServices(t, db, rm)

			if got := ss.IsValid(context.Background(), tt.creds); got != tt.want {
				t.Fatalf("IsValid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionService_Delete(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeSessionsRepo{}
	rm := &fakeRepoManager{s: repo}
	_, ss := newServices(t, db, rm)

	if err := ss.Delete(context.Background(), "d1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.deletedDevices) != 1 || repo.deletedDevices[0] != "d1" {
		t.Fatalf("unexpected deletions: %v", repo.deletedDevices)
	}
}
