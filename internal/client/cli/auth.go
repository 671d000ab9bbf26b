package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/sebak/authd/internal/client/api"
	"github.com/sebak/authd/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, full name and password and creates a new
// account on the server.
//
// On success it prints the new account and returns nil. The password byte
// slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	account, err := a.api.Register(ctx, email, fullName, password)
	if err != nil {
		if errors.Is(err, api.ErrEmailTaken) {
			log.Printf("Email is already registered")
			return err
		}
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Printf("Success! Registered %s (id %d)\n", account.Email, account.ID)
	return nil
}

// Login prompts for credentials and exchanges them for a token.
//
// On success the token is kept in memory for subsequent commands. The
// password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			log.Printf("Login unsuccessful: invalid credentials")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		a.token = ""
		a.userName = ""
		return err
	}

	a.token = session.Token
	a.userName = email
	log.Printf("Login successful, token valid for %ds", session.ExpiresIn)
	return nil
}

// Whoami asks the server who the current token belongs to.
func (a *App) Whoami(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	id, err := a.api.Me(ctx, a.token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			log.Printf("Session expired, please login again")
			a.token = ""
			a.userName = ""
		}
		return err
	}

	fmt.Printf("%s (id %d)\n", id.Email, id.ID)
	return nil
}

// Logout drops the in-memory token.
func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.userName = ""
	return nil
}
