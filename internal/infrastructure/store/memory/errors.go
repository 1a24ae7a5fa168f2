package memory

import (
	"errors"
	"fmt"
)

var errIDExhausted = errors.New("id generation attempts exhausted")

func errDuplicateID(id string) error {
	return fmt.Errorf("duplicate id %q", id)
}

func errUnknownID(id string) error {
	return fmt.Errorf("no record with id %q", id)
}

func errUnknownRuleID(id string) error {
	return fmt.Errorf("no rule with id %q", id)
}
