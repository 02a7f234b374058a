package identity

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHeaderAuthenticator(t *testing.T) {
	Convey("Given the header authenticator", t, func() {
		var a HeaderAuthenticator

		Convey("a present header resolves the user", func() {
			r := httptest.NewRequest("POST", "/simulate", nil)
			r.Header.Set(HeaderUserID, " u-42 ")
			id, err := a.Identify(r)
			So(err, ShouldBeNil)
			So(id.UserID, ShouldEqual, "u-42")
		})

		Convey("a missing header is unauthenticated", func() {
			_, err := a.Identify(httptest.NewRequest("POST", "/simulate", nil))
			So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
		})
	})
}

func TestJWTAuthenticator(t *testing.T) {
	Convey("Given a JWT authenticator", t, func() {
		a := NewJWTAuthenticator("s3cret", "internsim")
		request := func(token string) (Identity, error) {
			r := httptest.NewRequest("POST", "/simulate", nil)
			if token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
			return a.Identify(r)
		}

		Convey("an issued token round-trips", func() {
			tok, err := a.Issue("u1", "u1@example.com", time.Hour)
			So(err, ShouldBeNil)
			id, err := request(tok)
			So(err, ShouldBeNil)
			So(id, ShouldResemble, Identity{UserID: "u1", Email: "u1@example.com"})
		})

		Convey("a missing header is rejected", func() {
			_, err := request("")
			So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("a token signed with another secret is rejected", func() {
			tok, _ := NewJWTAuthenticator("other", "internsim").Issue("u1", "", time.Hour)
			_, err := request(tok)
			So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("an expired token is rejected", func() {
			tok, _ := a.Issue("u1", "", -time.Minute)
			_, err := request(tok)
			So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("a foreign issuer is rejected", func() {
			tok, _ := NewJWTAuthenticator("s3cret", "elsewhere").Issue("u1", "", time.Hour)
			_, err := request(tok)
			So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("a token without subject is rejected", func() {
			tok, _ := a.Issue("", "", time.Hour)
			_, err := request(tok)
			So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("the none algorithm is rejected", func() {
			claims := jwt.RegisteredClaims{Subject: "u1", Issuer: "internsim", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
			tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
			So(err, ShouldBeNil)
			_, err = request(tok)
			So(errors.Is(err, ErrUnauthenticated), ShouldBeTrue)
		})
	})
}
