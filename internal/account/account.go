package account

// Role tags assigned to accounts. Every account gets RoleUser at signup;
// RoleAdmin is granted out of band.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Account is one registered identity. Username doubles as the storage key
// and never changes after signup. RefreshTokens has set semantics: a token
// is valid for refresh only while it is a member, regardless of what its
// signature says.
type Account struct {
	Username      string   `json:"username" dynamodbav:"username"`
	PasswordHash  string   `json:"passwordHash" dynamodbav:"passwordHash"`
	Roles         []string `json:"roles" dynamodbav:"roles"`
	Blocked       bool     `json:"blocked" dynamodbav:"blocked"`
	RefreshTokens []string `json:"refreshTokens" dynamodbav:"refreshTokens"`
}

// HasRefreshToken reports whether token is currently a member of the set.
func (a *Account) HasRefreshToken(token string) bool {
	for _, t := range a.RefreshTokens {
		if t == token {
			return true
		}
	}
	return false
}

// AddRefreshToken appends token unless it is already present.
func (a *Account) AddRefreshToken(token string) {
	if a.HasRefreshToken(token) {
		return
	}
	a.RefreshTokens = append(a.RefreshTokens, token)
}

// RemoveRefreshToken removes exactly the given token, leaving every other
// session untouched. Removing an absent token is a no-op.
func (a *Account) RemoveRefreshToken(token string) {
	kept := a.RefreshTokens[:0]
	for _, t := range a.RefreshTokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	a.RefreshTokens = kept
}

// HasRole reports whether the account carries the given role tag.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Roles = append([]string(nil), a.Roles...)
	cp.RefreshTokens = append([]string(nil), a.RefreshTokens...)
	return &cp
}
