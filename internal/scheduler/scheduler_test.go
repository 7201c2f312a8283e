package scheduler_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/scheduler"
)

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler

	BeforeEach(func() {
		s = scheduler.New(50 * time.Millisecond)
	})

	AfterEach(func() {
		s.Stop()
	})

	It("registers every maintenance job", func() {
		noop := func(context.Context) (int64, error) { return 0, nil }

		err := s.RegisterMaintenance(scheduler.Maintenance{
			ExpireAgentRequests:   noop,
			ExpireInvitations:     noop,
			DeleteExpiredSessions: noop,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Entries()).To(Equal(3))
	})

	It("skips nil jobs", func() {
		err := s.RegisterMaintenance(scheduler.Maintenance{
			ExpireAgentRequests: func(context.Context) (int64, error) { return 0, nil },
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Entries()).To(Equal(1))
	})

	It("rejects a malformed spec", func() {
		err := s.Add("every minute", "bogus", func(context.Context) (int64, error) { return 0, nil })

		Expect(err).To(MatchError(ContainSubstring("scheduling bogus")))
	})

	Describe("RunJob", func() {
		It("bounds each run with the job timeout", func() {
			var deadline time.Time
			var ok bool

			s.RunJob("probe", func(ctx context.Context) (int64, error) {
				deadline, ok = ctx.Deadline()
				return 1, nil
			})

			Expect(ok).To(BeTrue())
			Expect(time.Until(deadline)).To(BeNumerically("<=", 50*time.Millisecond))
		})

		It("swallows job errors", func() {
			calls := 0
			Expect(func() {
				s.RunJob("failing", func(context.Context) (int64, error) {
					calls++
					return 0, errors.New("db down")
				})
			}).NotTo(Panic())
			Expect(calls).To(Equal(1))
		})

		It("cancels running jobs on Stop", func() {
			other := scheduler.New(time.Minute)
			other.Stop()

			var jobErr error
			other.RunJob("after_stop", func(ctx context.Context) (int64, error) {
				jobErr = ctx.Err()
				return 0, nil
			})

			Expect(jobErr).To(MatchError(context.Canceled))
		})
	})
})
