package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/typerank/internal/auth"
	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

func TestHashpw(t *testing.T) {
	convey.Convey("Given the hashpw command", t, func() {
		var out bytes.Buffer

		convey.Convey("When a password is passed as an argument", func() {
			err := newApp(strings.NewReader(""), &out).Run([]string{"hashpw", "--cost", "4", "s3cret"})

			convey.Convey("Then an env line with a matching hash is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				line := strings.TrimSpace(out.String())
				convey.So(line, convey.ShouldStartWith, "TYPERANK_ADMIN_PASSWORD_HASH=$2a$04$")
				hash := strings.TrimPrefix(line, "TYPERANK_ADMIN_PASSWORD_HASH=")
				convey.So(bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the password comes from stdin", func() {
			err := newApp(strings.NewReader("typed\n"), &out).Run([]string{"hashpw", "--cost", "4"})

			convey.Convey("Then the prompt is followed by the hash", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldStartWith, "Password: TYPERANK_ADMIN_PASSWORD_HASH=")
			})
		})

		convey.Convey("When the password is empty", func() {
			err := newApp(strings.NewReader("\n"), &out).Run([]string{"hashpw", "--cost", "4"})
			convey.So(errors.Is(err, auth.ErrMissingPassword), convey.ShouldBeTrue)
		})

		convey.Convey("When the cost is out of range", func() {
			err := newApp(strings.NewReader(""), &out).Run([]string{"hashpw", "--cost", "99", "pw"})
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
