package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

// secrets are the two entries rindful keeps under its keyring service.
var secrets = []struct {
	name  string
	value string
	get   func() (string, error)
	set   func(string) error
	del   func() error
}{
	{"connection string", "postgres://journal@db.local:5432/rindful?sslmode=disable", GetConnectionString, SetConnectionString, DeleteConnectionString},
	{"owner id", "user-42", GetOwnerID, SetOwnerID, DeleteOwnerID},
}

func TestSecretLifecycle(t *testing.T) {
	for _, s := range secrets {
		t.Run(s.name, func(t *testing.T) {
			gokeyring.MockInit()

			if _, err := s.get(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get on empty keyring error = %v, want ErrNotFound", err)
			}
			if err := s.set("  "); err == nil {
				t.Error("set accepted a blank value")
			}

			if err := s.set(s.value); err != nil {
				t.Fatalf("set error = %v", err)
			}
			got, err := s.get()
			if err != nil || got != s.value {
				t.Errorf("get = %q, %v; want %q", got, err, s.value)
			}

			if err := s.del(); err != nil {
				t.Fatalf("delete error = %v", err)
			}
			if _, err := s.get(); !errors.Is(err, ErrNotFound) {
				t.Errorf("get after delete error = %v, want ErrNotFound", err)
			}
			if err := s.del(); !errors.Is(err, ErrNotFound) {
				t.Errorf("second delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSecretsAreSeparate(t *testing.T) {
	gokeyring.MockInit()

	if err := SetOwnerID("user-42"); err != nil {
		t.Fatal(err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("connection string error = %v after storing only an owner id", err)
	}

	if err := SetConnectionString("host=db.local dbname=rindful"); err != nil {
		t.Fatal(err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatal(err)
	}
	if id, err := GetOwnerID(); err != nil || id != "user-42" {
		t.Errorf("owner id = %q, %v after removing the connection string", id, err)
	}
}

func TestKeyringUnavailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with a working keyring")
	}

	gokeyring.MockInitWithError(errors.New("dbus not running"))
	defer gokeyring.MockInit()

	for _, s := range secrets {
		if _, err := s.get(); !errors.Is(err, ErrKeyringUnavailable) {
			t.Errorf("%s: get error = %v, want ErrKeyringUnavailable", s.name, err)
		}
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
}
