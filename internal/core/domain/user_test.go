package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
)

func TestNewUser(t *testing.T) {
	RegisterTestingT(t)

	now := time.Now()
	user := NewUser(" jane_doe ", " Jane@Example.COM ", "hash", now)

	Expect(user.ID).ToNot(Equal(uuid.Nil))
	Expect(user.Username).To(Equal("jane_doe"))
	Expect(user.Email).To(Equal("jane@example.com"))
	Expect(user.PasswordHash).To(Equal("hash"))
	Expect(user.CreatedAt).To(Equal(now))
	Expect(user.UpdatedAt).To(Equal(now))
}

func TestNormalizeEmail(t *testing.T) {
	RegisterTestingT(t)

	Expect(NormalizeEmail("  USER@mail.io")).To(Equal("user@mail.io"))
}
