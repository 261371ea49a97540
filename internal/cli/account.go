package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/studiowebux/catalog/internal/auth"
	"github.com/studiowebux/catalog/internal/types"
)

// whoami is the signed-in account of the active profile
type whoami struct {
	Profile  string      `json:"profile" yaml:"profile"`
	URL      string      `json:"url" yaml:"url"`
	SignedIn bool        `json:"signedIn" yaml:"signedIn"`
	User     *types.User `json:"user,omitempty" yaml:"user,omitempty"`
	Expires  *time.Time  `json:"expires,omitempty" yaml:"expires,omitempty"`
}

// Login signs in with a password. An empty password is asked for.
func (e *Env) Login(ctx context.Context, email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", errUsage)
	}
	if password == "" {
		p, err := promptSecret(fmt.Sprintf("Password for %s", email))
		if err != nil {
			return err
		}
		password = p
	}

	s, err := e.services()
	if err != nil {
		return err
	}
	result, err := s.Auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if err := e.storeResult(result); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.Out, "Signed in as %s\n", result.User().DisplayName())
	return err
}

// SignUp creates an account. Without email confirmation the new session is
// stored as if signed in.
func (e *Env) SignUp(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", errUsage)
	}
	s, err := e.services()
	if err != nil {
		return err
	}

	var meta *types.UserMetadata
	if name != "" {
		meta = &types.UserMetadata{FullName: &name}
	}
	result, err := s.Auth.SignUp(ctx, email, password, meta)
	if err != nil {
		return err
	}
	if err := e.storeResult(result); err != nil {
		return err
	}
	if result.Session == nil {
		_, err = fmt.Fprintf(e.Out, "Account created for %s, check your email to confirm it\n", email)
		return err
	}
	_, err = fmt.Fprintf(e.Out, "Signed up as %s\n", result.User().DisplayName())
	return err
}

// Recover sends a password recovery email
func (e *Env) Recover(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", errUsage)
	}
	s, err := e.services()
	if err != nil {
		return err
	}
	if err := s.Auth.Recover(ctx, email); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.Out, "Recovery email sent to %s\n", email)
	return err
}

func (e *Env) storeResult(result *auth.Result) error {
	if result.Session != nil {
		return e.Session.SetAuth(result.Session)
	}
	return e.Session.SetLocal(result.Local)
}

// Logout signs out on the backend and forgets the stored session. The
// local session is cleared even when the backend call fails.
func (e *Env) Logout(ctx context.Context) error {
	a := e.Session.Auth()
	if a == nil && e.Session.Local() == nil {
		_, err := fmt.Fprintln(e.Out, "Not signed in")
		return err
	}

	var remote error
	if a != nil {
		s, err := e.services()
		if err != nil {
			remote = err
		} else {
			remote = s.Auth.SignOut(ctx, a.AccessToken)
		}
	}
	if err := e.Session.ClearAuth(); err != nil {
		return err
	}
	if remote != nil {
		fmt.Fprintf(e.Out, "Signed out locally (%v)\n", remote)
		return nil
	}
	_, err := fmt.Fprintln(e.Out, "Signed out")
	return err
}

// WhoAmI prints the account of the active profile, refreshing the session
// when it is about to expire
func (e *Env) WhoAmI(ctx context.Context) error {
	profile := e.Session.GetActiveProfile()
	info := whoami{Profile: profile.Name, URL: e.Backend(*profile).URL}

	if e.Session.Auth() != nil {
		s, err := e.services()
		if err != nil {
			return err
		}
		tok, err := auth.NewTokenSource(s.Auth, e.Session).Token()
		if err != nil && !errors.Is(err, auth.ErrNotSignedIn) {
			return err
		}
		if err == nil {
			user, err := s.Auth.User(ctx, tok.AccessToken)
			if err != nil {
				return err
			}
			info.SignedIn = true
			info.User = user
			if !tok.Expiry.IsZero() {
				expires := tok.Expiry
				info.Expires = &expires
			}
		}
	} else if local := e.Session.Local(); local != nil {
		user := local.User
		info.User = &user
	}

	return e.print(info, func(w io.Writer) error {
		fmt.Fprintf(w, "Profile: %s (%s)\n", info.Profile, info.URL)
		switch {
		case info.SignedIn:
			fmt.Fprintf(w, "Signed in as %s <%s>\n", info.User.DisplayName(), info.User.Email)
			if info.Expires != nil {
				fmt.Fprintf(w, "Session expires %s\n", info.Expires.Format(time.RFC3339))
			}
		case info.User != nil:
			fmt.Fprintf(w, "Awaiting email confirmation for %s\n", info.User.Email)
		default:
			fmt.Fprintln(w, "Not signed in")
		}
		return nil
	})
}
