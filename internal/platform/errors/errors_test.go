package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
		ErrorCodeDuplicateKey:    http.StatusConflict,
		ErrorCodeConflict:        http.StatusConflict,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeJSON:            http.StatusBadRequest,
		ErrorCodeUnauthorized:    http.StatusUnauthorized,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeDB:              http.StatusInternalServerError,
		ErrorCodePanic:           http.StatusInternalServerError,
		9999:                     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.Status(); got != want {
			t.Fatalf("%d.Status() = %d want %d", code, got, want)
		}
	}
	if HTTPStatus(stderrs.New("plain")) != http.StatusInternalServerError {
		t.Fatal("foreign errors are 500")
	}
}

func TestError_WrapAndInspect(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatal("nil render")
	}

	cause := stderrs.New("connection reset")
	err := fmt.Errorf("load: %w", Wrapf(cause, ErrorCodeUnavailable, "occurrences %s", "remote"))
	if err.Error() != "load: occurrences remote: connection reset" {
		t.Fatalf("render %q", err.Error())
	}
	if !IsCode(err, ErrorCodeUnavailable) || !stderrs.Is(err, cause) || Root(err) != cause {
		t.Fatalf("chain lost: code=%v", CodeOf(err))
	}
	if Root(nil) != nil {
		t.Fatal("Root(nil)")
	}
}

func TestWithFieldAndOp_CopyOnWrite(t *testing.T) {
	base := Validationf("bad status")
	withField := WithField(base, "status")
	withOp := WithOp(withField, "occurrences.update")

	e, _ := As(withOp)
	if e.Field() != "status" || e.Op() != "occurrences.update" {
		t.Fatalf("field=%q op=%q", e.Field(), e.Op())
	}
	if b, _ := As(base); b.Field() != "" {
		t.Fatal("base mutated")
	}
	plain := stderrs.New("x")
	if WithField(plain, "f") != plain || WithOp(plain, "o") != plain {
		t.Fatal("foreign errors pass through")
	}
}

func TestWireFrom(t *testing.T) {
	if (WireFrom(nil) != Wire{}) {
		t.Fatal("nil wire")
	}
	w := WireFrom(WithField(InvalidArgf("from after to"), "from"))
	if w.Code != ErrorCodeInvalidArgument || w.Message != "from after to" || w.Field != "from" {
		t.Fatalf("wire %+v", w)
	}
	if w := WireFrom(stderrs.New("boom")); w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("foreign wire %+v", w)
	}
}

func TestSugarCodes(t *testing.T) {
	cases := map[ErrorCode]error{
		ErrorCodeNotFound:        NotFoundf("x"),
		ErrorCodeInvalidArgument: InvalidArgf("x"),
		ErrorCodeValidation:      Validationf("x"),
		ErrorCodeJSON:            JSONErrf("x"),
		ErrorCodeUnauthorized:    Unauthorizedf("x"),
		ErrorCodeConflict:        Conflictf("x"),
		ErrorCodeUnavailable:     Unavailablef("x"),
		ErrorCodeDB:              DBf("x"),
		ErrorCodePanic:           PanicErrf("x"),
		ErrorCodeTooManyRequests: TooManyRequestsf("x"),
		ErrorCodeUnknown:         Internalf("x"),
	}
	for want, err := range cases {
		if CodeOf(err) != want {
			t.Fatalf("%v: got %v", want, CodeOf(err))
		}
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{Unavailablef("n8n down"), true},
		{TooManyRequestsf("slow down"), true},
		{NotFoundf("gone"), false},
		{stderrs.New("commit unexpectedly resulted in rollback"), true},
		{context.Canceled, false},
		{nil, false},
	}
	for i, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("case %d (%v): got %v", i, c.err, got)
		}
	}
}
