package schema

import "errors"

// ErrorChain flattens err into its chain, outermost first. Joined errors
// contribute their first element only, so the result is always a single path.
func ErrorChain(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			if errs := u.Unwrap(); len(errs) > 0 {
				err = errs[0]
			} else {
				err = nil
			}
		default:
			err = errors.Unwrap(err)
		}
	}
	return chain
}

// ErrorMessages returns the messages of the chain, each stripped of the text
// contributed by the next inner error so the lines do not repeat themselves.
func ErrorMessages(err error) []string {
	chain := ErrorChain(err)
	msgs := make([]string, len(chain))
	for i, e := range chain {
		msg := e.Error()
		if i+1 < len(chain) {
			inner := chain[i+1].Error()
			if trimmed, ok := trimSuffix(msg, inner); ok {
				msg = trimmed
			}
		}
		msgs[i] = msg
	}
	return msgs
}

func trimSuffix(msg, inner string) (string, bool) {
	if len(inner) == 0 || len(msg) <= len(inner) || msg[len(msg)-len(inner):] != inner {
		return msg, false
	}
	msg = msg[:len(msg)-len(inner)]
	for len(msg) > 0 && (msg[len(msg)-1] == ' ' || msg[len(msg)-1] == ':') {
		msg = msg[:len(msg)-1]
	}
	if msg == "" {
		return inner, false
	}
	return msg, true
}
