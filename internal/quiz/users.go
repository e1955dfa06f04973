package quiz

import (
	"errors"
	"fmt"
)

func FindUser(users []User, id string) (User, error) {
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// SaveUser replaces the user carrying edited.ID, or appends a new account
// with role "user" when edited has no ID.
func SaveUser(users []User, edited User) ([]User, User, error) {
	out := make([]User, len(users))
	copy(out, users)

	if edited.ID == "" {
		created := edited
		created.ID = NewID()
		created.Role = RoleUser
		return append(out, created), created, nil
	}
	for i := range out {
		if out[i].ID == edited.ID {
			if edited.Role == "" {
				edited.Role = out[i].Role
			}
			out[i] = edited
			return out, edited, nil
		}
	}
	return users, User{}, ErrNotFound
}

// RemoveUser drops the user with the given id. The "admin" account is
// refused with ErrProtectedUser.
func RemoveUser(users []User, id string) ([]User, error) {
	u, err := FindUser(users, id)
	if err != nil {
		return users, err
	}
	if u.Username == ProtectedUsername {
		return users, ErrProtectedUser
	}
	out := make([]User, 0, len(users)-1)
	for _, x := range users {
		if x.ID != id {
			out = append(out, x)
		}
	}
	return out, nil
}

var ErrInvalidRole = errors.New("role must be admin or user")

// ImportUsers merges rows into users: a known ID replaces that user, an
// unknown ID is inserted as given, and an empty ID gets a fresh one. Role
// defaults to "user".
func ImportUsers(users []User, rows []User) (next []User, inserted, updated int, err error) {
	next = make([]User, len(users))
	copy(next, users)
	pos := make(map[string]int, len(next))
	for i, u := range next {
		pos[u.ID] = i
	}
	for _, r := range rows {
		if r.Role == "" {
			r.Role = RoleUser
		}
		if r.Role != RoleUser && r.Role != RoleAdmin {
			return users, 0, 0, fmt.Errorf("%w: %q for %s", ErrInvalidRole, r.Role, r.Username)
		}
		if r.ID == "" {
			r.ID = NewID()
		}
		if i, ok := pos[r.ID]; ok {
			next[i] = r
			updated++
			continue
		}
		pos[r.ID] = len(next)
		next = append(next, r)
		inserted++
	}
	return next, inserted, updated, nil
}
