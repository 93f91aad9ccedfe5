package identity

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/rindful/internal/keyring"
)

func TestStatic(t *testing.T) {
	if got := Static("alice").OwnerID(); got != "alice" {
		t.Errorf("OwnerID() = %q, want alice", got)
	}
	if got := Static("").OwnerID(); got != "local_user" {
		t.Errorf("empty Static OwnerID() = %q, want local_user", got)
	}
}

func TestKeyringReadsEveryCall(t *testing.T) {
	gokeyring.MockInit()
	p := Keyring{}

	if got := p.OwnerID(); got != "local_user" {
		t.Errorf("OwnerID() with empty keyring = %q, want local_user", got)
	}

	if err := keyring.SetOwnerID("user-42"); err != nil {
		t.Fatalf("SetOwnerID() error = %v", err)
	}
	if got := p.OwnerID(); got != "user-42" {
		t.Errorf("OwnerID() after sign-in = %q, want user-42", got)
	}

	if err := keyring.DeleteOwnerID(); err != nil {
		t.Fatalf("DeleteOwnerID() error = %v", err)
	}
	if got := p.OwnerID(); got != "local_user" {
		t.Errorf("OwnerID() after sign-out = %q, want local_user", got)
	}
}

func TestKeyringUnavailableFallsBack(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	defer gokeyring.MockInit()

	if got := (Keyring{}).OwnerID(); got != "local_user" {
		t.Errorf("OwnerID() = %q, want local_user", got)
	}
}

func TestFromConfig(t *testing.T) {
	if _, ok := FromConfig("fixed").(Static); !ok {
		t.Error("FromConfig(owner) should be Static")
	}
	if _, ok := FromConfig("").(Keyring); !ok {
		t.Error("FromConfig(\"\") should be Keyring")
	}
}
