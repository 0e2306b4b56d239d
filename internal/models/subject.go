package models

import (
	"strconv"
)

// SubjectKind distinguishes the two kinds of roster subjects
type SubjectKind int

const (
	// SubjectDependent is a minor identified by an opaque token
	SubjectDependent SubjectKind = iota + 1
	// SubjectAthlete is an adult athlete identified by an account id
	SubjectAthlete
)

func (k SubjectKind) String() string {
	switch k {
	case SubjectDependent:
		return "dependent"
	case SubjectAthlete:
		return "athlete"
	}
	return "unknown"
}

// SubjectRef identifies a roster subject: either a dependent token or an
// adult-athlete account id, never both. The zero value is invalid; refs are
// built only through DependentRef and AthleteRef, so a populated ref always
// has exactly one side set
type SubjectRef struct {
	kind      SubjectKind
	token     string
	accountID int64
}

// DependentRef builds a subject reference for a minor dependent
func DependentRef(token string) SubjectRef {
	return SubjectRef{kind: SubjectDependent, token: token}
}

// AthleteRef builds a subject reference for an adult-athlete account
func AthleteRef(accountID int64) SubjectRef {
	return SubjectRef{kind: SubjectAthlete, accountID: accountID}
}

// Kind returns which kind of subject this reference identifies
func (s SubjectRef) Kind() SubjectKind {
	return s.kind
}

// DependentToken returns the dependent token, or "" for athlete refs
func (s SubjectRef) DependentToken() string {
	return s.token
}

// AthleteAccountID returns the athlete account id, or 0 for dependent refs
func (s SubjectRef) AthleteAccountID() int64 {
	return s.accountID
}

// IsZero reports whether the reference was never constructed
func (s SubjectRef) IsZero() bool {
	return s.kind == 0
}

// Key returns a stable string form of the subject identifier, used for
// ordering ties and log output
func (s SubjectRef) Key() string {
	if s.kind == SubjectAthlete {
		return strconv.FormatInt(s.accountID, 10)
	}
	return s.token
}

// ParseSubjectCode classifies an opaque scanned code. An all-digit code is
// an adult-athlete account id; anything else is a dependent token. The
// dispatch is purely syntactic and never consults storage — a dependent
// token that happened to be all digits would be misrouted, which the token
// generator makes vanishingly unlikely but does not rule out
func ParseSubjectCode(code string) (SubjectRef, bool) {
	if code == "" {
		return SubjectRef{}, false
	}
	if isAllDigits(code) {
		// An unparseable (overflowing) digit string still classifies as an
		// athlete id; the lookup will simply miss
		id, _ := strconv.ParseInt(code, 10, 64)
		return AthleteRef(id), true
	}
	return DependentRef(code), true
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
