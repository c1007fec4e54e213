package fixedwindow

import (
	"fmt"
	"strconv"
	"strings"
)

// Identity names who is calling what. Caller is typically a resolved client
// network address, Target the component owning the operation, and Operation
// the specific operation name.
type Identity struct {
	Caller    string
	Target    string
	Operation string
}

// DeriveKey builds the counter key identifying an identity under a policy.
// It is deterministic and pure: the same inputs always produce the same key,
// and distinct (caller, target, operation, policy) tuples always produce
// distinct keys. Each component is length-prefixed so separators occurring
// inside a component cannot cause two tuples to collide.
//
// An empty Operation is rejected with ErrInvalidIdentity; every other
// component may be empty.
func DeriveKey(id Identity, policyID string) (string, error) {
	if id.Operation == "" {
		return "", fmt.Errorf("%w: operation must not be empty", ErrInvalidIdentity)
	}

	parts := [...]string{id.Caller, id.Target, id.Operation, policyID}

	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String(), nil
}
