package model

// Credentials is the body of POST /auth/login.  Identifier may be an
// email address or a phone number.
type Credentials struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Username   string `json:"username" validate:"required"`
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
}

// AuthUser is the login response.  Token is the bearer credential to send
// on subsequent calls.  IsAdmin is derived locally from Role.
//
// Fields:
//
//	ID       – backend user identifier.
//	Username – display name.
//	Email    – email address, if any.
//	Phone    – phone number, if any.
//	Role     – account type (user, admin or staff).
//	Token    – bearer token.
//	IsAdmin  – true when Role is "admin".
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Token    string `json:"token"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UserProfile is the response of GET /users/me.
type UserProfile struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	PhoneNumber    string  `json:"phone_number"`
	AccountBalance float64 `json:"account_balance"`
	AvatarURL      *string `json:"avatar_url"`
	Gender         string  `json:"gender,omitempty"`
	DOB            *string `json:"dob"`
	Address        string  `json:"address,omitempty"`
	IsActive       bool    `json:"is_active"`
	AccountType    string  `json:"account_type"`
	CreatedAt      string  `json:"created_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// ProfileUpdate is the body of PATCH /users/:id.  Nil fields are left
// untouched by the backend.
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Address     *string `json:"address,omitempty"`
}
