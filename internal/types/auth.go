package types

// User is the authenticated account returned by the auth endpoints
type User struct {
	ID               string        `json:"id"`
	Email            string        `json:"email"`
	EmailConfirmedAt *string       `json:"email_confirmed_at,omitempty"`
	Phone            *string       `json:"phone,omitempty"`
	CreatedAt        *string       `json:"created_at,omitempty"`
	UpdatedAt        *string       `json:"updated_at,omitempty"`
	LastSignInAt     *string       `json:"last_sign_in_at,omitempty"`
	AppMetadata      *AppMetadata  `json:"app_metadata,omitempty"`
	UserMetadata     *UserMetadata `json:"user_metadata,omitempty"`
}

// DisplayName prefers the full name, then the name, then the email
func (u User) DisplayName() string {
	if u.UserMetadata != nil {
		if u.UserMetadata.FullName != nil {
			return *u.UserMetadata.FullName
		}
		if u.UserMetadata.Name != nil {
			return *u.UserMetadata.Name
		}
	}
	return u.Email
}

// AvatarURL returns the avatar url, falling back to the picture field
func (u User) AvatarURL() string {
	if u.UserMetadata == nil {
		return ""
	}
	if u.UserMetadata.AvatarURL != nil {
		return *u.UserMetadata.AvatarURL
	}
	if u.UserMetadata.Picture != nil {
		return *u.UserMetadata.Picture
	}
	return ""
}

// AppMetadata holds provider information
type AppMetadata struct {
	Provider  *string  `json:"provider,omitempty"`
	Providers []string `json:"providers,omitempty"`
}

// UserMetadata holds profile fields supplied at sign up
type UserMetadata struct {
	AvatarURL     *string `json:"avatar_url,omitempty"`
	Email         *string `json:"email,omitempty"`
	EmailVerified *bool   `json:"email_verified,omitempty"`
	FullName      *string `json:"full_name,omitempty"`
	Name          *string `json:"name,omitempty"`
	Picture       *string `json:"picture,omitempty"`
}

// AuthSession is a signed-in session as returned by the token endpoint
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// LocalSession is kept when sign up succeeds without returning a session
type LocalSession struct {
	User      User  `json:"user"`
	CreatedAt int64 `json:"created_at"`
	ExpiresAt int64 `json:"expires_at"`
}

// SignInRequest is the password grant payload
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest registers a new account
type SignUpRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Data     *UserMetadata `json:"data,omitempty"`
}

// RecoverRequest asks for a password reset email
type RecoverRequest struct {
	Email string `json:"email"`
}

// RefreshRequest exchanges a refresh token for a new session
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthError is the error body returned by the auth endpoints
type AuthError struct {
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	Msg              string `json:"msg,omitempty"`
}

// Text returns the most descriptive message available
func (e AuthError) Text() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Message != "":
		return e.Message
	case e.Msg != "":
		return e.Msg
	default:
		return e.Error
	}
}

// UpdateUserRequest changes the signed-in account
type UpdateUserRequest struct {
	Email    *string       `json:"email,omitempty"`
	Password *string       `json:"password,omitempty"`
	Data     *UserMetadata `json:"data,omitempty"`
}
