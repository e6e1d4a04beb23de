package soap

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Fault is a SOAP fault decoded from a response body. It satisfies error
// so callers can surface upstream failures through normal error flow.
type Fault struct {
	Code   string
	Reason string
	Detail string
}

func (f *Fault) Error() string {
	if f.Code != "" {
		return fmt.Sprintf("soap fault %s: %s", f.Code, f.Reason)
	}
	return fmt.Sprintf("soap fault: %s", f.Reason)
}

// parseFault reads either fault vocabulary: SOAP 1.1 uses unqualified
// faultcode/faultstring/detail children, SOAP 1.2 nests Code/Value and
// Reason/Text.
func parseFault(el *etree.Element) *Fault {
	f := &Fault{}

	if code := childByTag(el, "faultcode"); code != nil {
		f.Code = strings.TrimSpace(code.Text())
		if reason := childByTag(el, "faultstring"); reason != nil {
			f.Reason = strings.TrimSpace(reason.Text())
		}
		if detail := childByTag(el, "detail"); detail != nil {
			f.Detail = strings.TrimSpace(innerText(detail))
		}
		return f
	}

	if code := childByTag(el, "Code"); code != nil {
		if value := childByTag(code, "Value"); value != nil {
			f.Code = strings.TrimSpace(value.Text())
		}
	}
	if reason := childByTag(el, "Reason"); reason != nil {
		if text := childByTag(reason, "Text"); text != nil {
			f.Reason = strings.TrimSpace(text.Text())
		} else {
			f.Reason = strings.TrimSpace(innerText(reason))
		}
	}
	if detail := childByTag(el, "Detail"); detail != nil {
		f.Detail = strings.TrimSpace(innerText(detail))
	}
	if f.Code == "" && f.Reason == "" {
		f.Reason = strings.TrimSpace(innerText(el))
	}
	return f
}

// innerText concatenates all character data under an element, depth first.
func innerText(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(innerText(t))
		}
	}
	return sb.String()
}
