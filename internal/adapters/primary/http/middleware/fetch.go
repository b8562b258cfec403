package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const fetchKey contextKey = "fetch"

const (
	// RequestedWithHeader marks a request issued by the dashboard's fetch client.
	RequestedWithHeader = "X-Requested-With"
	// RequestedWithFetch is the value the fetch client sends.
	RequestedWithFetch = "fetch"
	// RequestSeqHeader carries the client's request sequence number. It is
	// echoed back so the client can drop responses that arrive out of order.
	RequestSeqHeader = "X-Analytics-Request-Seq"
)

// FetchRequest flags requests sent by the fetch client and echoes their
// sequence header.
func FetchRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seq := r.Header.Get(RequestSeqHeader); seq != "" {
			w.Header().Set(RequestSeqHeader, seq)
		}
		w.Header().Add("Vary", RequestedWithHeader)

		if r.Header.Get(RequestedWithHeader) == RequestedWithFetch {
			r = r.WithContext(context.WithValue(r.Context(), fetchKey, true))
		}
		next.ServeHTTP(w, r)
	})
}

// IsFetch reports whether the request came from the fetch client.
func IsFetch(ctx context.Context) bool {
	v, _ := ctx.Value(fetchKey).(bool)
	return v
}
