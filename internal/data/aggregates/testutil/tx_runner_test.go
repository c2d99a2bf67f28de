package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerStages(t *testing.T) {
	errLock := errors.New("could not lock job row")
	errApply := errors.New("achievement insert failed")
	errCommit := errors.New("commit failed")

	cases := []struct {
		name      string
		runner    *InjectedTxRunner
		body      error
		want      error
		bodyRuns  bool
		begin     int
		commits   int
		rollbacks int
	}{
		{name: "accept commits", runner: &InjectedTxRunner{}, bodyRuns: true, begin: 1, commits: 1},
		{name: "apply failure rolls back", runner: &InjectedTxRunner{}, body: errApply, want: errApply, bodyRuns: true, begin: 1, rollbacks: 1},
		{name: "begin failure skips body", runner: &InjectedTxRunner{FailBegin: errLock}, want: errLock, begin: 1},
		{name: "failure before body rolls back", runner: &InjectedTxRunner{FailBeforeBody: errLock}, want: errLock, begin: 1, rollbacks: 1},
		{name: "commit failure rolls back", runner: &InjectedTxRunner{FailCommit: errCommit}, want: errCommit, bodyRuns: true, begin: 1, rollbacks: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			err := tc.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
				ran = true
				if dbc.Tx != nil {
					t.Fatalf("injected runner must not hand out a transaction")
				}
				return tc.body
			})
			if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
				t.Fatalf("err: want %v got %v", tc.want, err)
			}
			if ran != tc.bodyRuns {
				t.Fatalf("body ran=%v want %v", ran, tc.bodyRuns)
			}
			r := tc.runner
			if r.BeginCalls != tc.begin || r.CommitCalls != tc.commits || r.RollbackCalls != tc.rollbacks {
				t.Fatalf("counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
			}
		})
	}
}
