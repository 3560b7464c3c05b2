package http

import "testing"

type termProbe struct {
	Term int `validate:"loanterm"`
}

type moneyProbe struct {
	Amount float64 `validate:"dec2"`
}

type idProbe struct {
	ID string `validate:"hex32"`
}

func TestLoanTermTag(t *testing.T) {
	cv := NewValidator()
	for _, term := range []int{1, 3, 4, 6, 9, 12, 18, 24} {
		if err := cv.Validate(&termProbe{Term: term}); err != nil {
			t.Fatalf("term %d rejected: %v", term, err)
		}
	}
	for _, term := range []int{0, 2, 5, 7, 13, 36, -1} {
		if err := cv.Validate(&termProbe{Term: term}); err == nil {
			t.Fatalf("term %d accepted", term)
		}
	}
}

func TestDec2Tag(t *testing.T) {
	cv := NewValidator()
	if err := cv.Validate(&moneyProbe{Amount: 10000.25}); err != nil {
		t.Fatalf("two decimals rejected: %v", err)
	}
	if err := cv.Validate(&moneyProbe{Amount: 10000.125}); err == nil {
		t.Fatal("three decimals accepted")
	}
}

func TestHex32Tag(t *testing.T) {
	cv := NewValidator()
	if err := cv.Validate(&idProbe{ID: "0123456789abcdef0123456789abcdef"}); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	for _, bad := range []string{"", "xyz", "0123456789ABCDEF0123456789ABCDEF", "0123"} {
		if err := cv.Validate(&idProbe{ID: bad}); err == nil {
			t.Fatalf("id %q accepted", bad)
		}
	}
}

func TestToFieldErrorsFallback(t *testing.T) {
	errs := ToFieldErrors(errTestSentinel{})
	if len(errs) != 1 || errs[0].Field != "_" {
		t.Fatalf("errs = %+v", errs)
	}
}

type errTestSentinel struct{}

func (errTestSentinel) Error() string { return "boom" }
