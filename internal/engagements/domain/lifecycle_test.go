package domain

import (
	"errors"
	"testing"
	"time"
)

type fakeEngagement struct {
	status          Status
	deadlines       map[string]time.Time
	rescheduleCount int
}

func (f *fakeEngagement) Status() Status { return f.status }

func (f *fakeEngagement) DeadlineAt(field string) *time.Time {
	if f.deadlines == nil {
		return nil
	}
	at, ok := f.deadlines[field]
	if !ok {
		return nil
	}
	return &at
}

func (f *fakeEngagement) TourRescheduleCount() int { return f.rescheduleCount }

func TestSupplierAcceptsDealPing(t *testing.T) {
	if err := ValidateTransition(StatusDealPingSent, StatusDealPingAccepted, ActorSupplier, nil); err != nil {
		t.Fatalf("supplier accept rejected: %v", err)
	}
}

func TestBuyerCannotAcceptDealPing(t *testing.T) {
	err := ValidateTransition(StatusDealPingSent, StatusDealPingAccepted, ActorBuyer, nil)
	if err == nil {
		t.Fatal("expected rejection for buyer actor")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if terr.Reason != ReasonActorNotPermitted {
		t.Errorf("reason = %s, want %s", terr.Reason, ReasonActorNotPermitted)
	}
}

func TestTerminalStatusBlocksEveryone(t *testing.T) {
	terminals := []Status{
		StatusCompleted, StatusDealPingDeclined, StatusDealPingExpired,
		StatusDeclinedByBuyer, StatusDeclinedBySupplier, StatusCancelled, StatusExpired,
	}
	actors := []Actor{ActorBuyer, ActorSupplier, ActorAdmin, ActorSystem}
	for _, from := range terminals {
		for _, actor := range actors {
			for _, to := range AllStatuses() {
				if to == from {
					continue
				}
				err := ValidateTransition(from, to, actor, nil)
				if err == nil {
					t.Fatalf("terminal %s allowed %s -> %s for %s", from, from, to, actor)
				}
				var terr *TransitionError
				if !errors.As(err, &terr) || terr.Reason != ReasonNoTransitions {
					t.Fatalf("%s -> %s (%s): reason = %v, want %s", from, to, actor, err, ReasonNoTransitions)
				}
			}
		}
	}
}

func TestAdminOverrideFromLiveStatus(t *testing.T) {
	for _, to := range AllStatuses() {
		if to == StatusTourConfirmed {
			continue
		}
		if err := ValidateTransition(StatusTourConfirmed, to, ActorAdmin, nil); err != nil {
			t.Errorf("admin move TOUR_CONFIRMED -> %s rejected: %v", to, err)
		}
	}
}

func TestBuyerDeclineAcrossFunnel(t *testing.T) {
	for status := range BuyerDeclineStates {
		if err := ValidateTransition(status, StatusDeclinedByBuyer, ActorBuyer, nil); err != nil {
			t.Errorf("buyer decline from %s rejected: %v", status, err)
		}
	}
	// Before matching and after signing the buyer is locked in.
	for _, status := range []Status{StatusDealPingSent, StatusAgreementSigned, StatusActive} {
		if err := ValidateTransition(status, StatusDeclinedByBuyer, ActorBuyer, nil); err == nil {
			t.Errorf("buyer decline from %s unexpectedly allowed", status)
		}
	}
}

func TestSupplierDeclineTourPhaseOnly(t *testing.T) {
	for status := range SupplierDeclineStates {
		if err := ValidateTransition(status, StatusDeclinedBySupplier, ActorSupplier, nil); err != nil {
			t.Errorf("supplier decline from %s rejected: %v", status, err)
		}
	}
	if err := ValidateTransition(StatusTourCompleted, StatusDeclinedBySupplier, ActorSupplier, nil); err == nil {
		t.Error("supplier decline after completed tour unexpectedly allowed")
	}
	if err := ValidateTransition(StatusTourRequested, StatusDeclinedBySupplier, ActorBuyer, nil); err == nil {
		t.Error("buyer triggering supplier decline unexpectedly allowed")
	}
}

func TestSystemCancellation(t *testing.T) {
	for _, status := range AllStatuses() {
		err := ValidateTransition(status, StatusCancelled, ActorSystem, nil)
		if IsTerminal(status) {
			if err == nil {
				t.Errorf("cancel from terminal %s unexpectedly allowed", status)
			}
			continue
		}
		if err != nil {
			t.Errorf("system cancel from %s rejected: %v", status, err)
		}
	}
	if err := ValidateTransition(StatusActive, StatusCancelled, ActorBuyer, nil); err == nil {
		t.Error("buyer cancel of ACTIVE unexpectedly allowed")
	}
}

func TestUnknownEdgeRejected(t *testing.T) {
	err := ValidateTransition(StatusDealPingSent, StatusActive, ActorSupplier, nil)
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonNotAllowed {
		t.Fatalf("DEAL_PING_SENT -> ACTIVE: got %v, want reason %s", err, ReasonNotAllowed)
	}
}

func TestRescheduleLimit(t *testing.T) {
	atLimit := &fakeEngagement{status: StatusTourConfirmed, rescheduleCount: 2}
	err := validateTransitionAt(StatusTourConfirmed, StatusTourRescheduled, ActorBuyer, atLimit, time.Now().UTC())
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonRescheduleLimit {
		t.Fatalf("at limit: got %v, want reason %s", err, ReasonRescheduleLimit)
	}

	underLimit := &fakeEngagement{status: StatusTourConfirmed, rescheduleCount: 1}
	if err := validateTransitionAt(StatusTourConfirmed, StatusTourRescheduled, ActorBuyer, underLimit, time.Now().UTC()); err != nil {
		t.Fatalf("under limit rejected: %v", err)
	}

	// Admin override bypasses the counter.
	if err := validateTransitionAt(StatusTourConfirmed, StatusTourRescheduled, ActorAdmin, atLimit, time.Now().UTC()); err != nil {
		t.Fatalf("admin reschedule at limit rejected: %v", err)
	}
}

func TestExpiredDeadlineBlocksAcceptButNotExpiry(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	eng := &fakeEngagement{
		status:    StatusDealPingSent,
		deadlines: map[string]time.Time{FieldDealPingExpiresAt: now.Add(-time.Hour)},
	}

	err := validateTransitionAt(StatusDealPingSent, StatusDealPingAccepted, ActorSupplier, eng, now)
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonDeadlinePassed {
		t.Fatalf("past deadline accept: got %v, want reason %s", err, ReasonDeadlinePassed)
	}

	if err := validateTransitionAt(StatusDealPingSent, StatusDealPingExpired, ActorSystem, eng, now); err != nil {
		t.Fatalf("expiry move past deadline rejected: %v", err)
	}
}

func TestDeadlineGraceWindows(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		status Status
		field  string
		at     time.Time
		want   bool
	}{
		{"ping expiry lapsed", StatusDealPingSent, FieldDealPingExpiresAt, now.Add(-time.Minute), true},
		{"ping expiry pending", StatusDealPingSent, FieldDealPingExpiresAt, now.Add(time.Minute), false},
		{"tour request inside 48h window", StatusTourRequested, FieldTourRequestedAt, now.Add(-47 * time.Hour), false},
		{"tour request past 48h window", StatusTourRequested, FieldTourRequestedAt, now.Add(-49 * time.Hour), true},
		{"agreement inside 7d window", StatusAgreementSent, FieldAgreementSentAt, now.Add(-6 * 24 * time.Hour), false},
		{"agreement past 7d window", StatusAgreementSent, FieldAgreementSentAt, now.Add(-8 * 24 * time.Hour), true},
	}
	for _, tc := range cases {
		eng := &fakeEngagement{status: tc.status, deadlines: map[string]time.Time{tc.field: tc.at}}
		if got := deadlinePassedAt(eng, now); got != tc.want {
			t.Errorf("%s: deadlinePassedAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDeadlineUnsetOrAbsent(t *testing.T) {
	noField := &fakeEngagement{status: StatusDealPingSent}
	if DeadlinePassed(noField) {
		t.Error("unset deadline field reported as passed")
	}
	noConcept := &fakeEngagement{
		status:    StatusOnboarding,
		deadlines: map[string]time.Time{FieldAgreementSentAt: time.Now().Add(-time.Hour)},
	}
	if DeadlinePassed(noConcept) {
		t.Error("status without deadline concept reported as passed")
	}
}

func TestAllowedTransitionsMatchValidator(t *testing.T) {
	actors := []Actor{ActorBuyer, ActorSupplier, ActorAdmin, ActorSystem}
	for _, current := range AllStatuses() {
		for _, actor := range actors {
			allowed := make(map[Status]bool)
			for _, s := range AllowedTransitions(current, actor) {
				if allowed[s] {
					t.Fatalf("%s/%s: duplicate target %s", current, actor, s)
				}
				allowed[s] = true
			}
			for _, target := range AllStatuses() {
				if target == current {
					continue
				}
				err := ValidateTransition(current, target, actor, nil)
				if (err == nil) != allowed[target] {
					t.Errorf("%s -> %s (%s): validator says %v, enumeration says %v",
						current, target, actor, err == nil, allowed[target])
				}
			}
		}
	}
}

func TestAllowedTransitionsDeclineListedOnce(t *testing.T) {
	got := AllowedTransitions(StatusTourRequested, ActorSupplier)
	count := 0
	for _, s := range got {
		if s == StatusDeclinedBySupplier {
			count++
		}
	}
	if count != 1 {
		t.Errorf("DECLINED_BY_SUPPLIER listed %d times, want 1", count)
	}
}

func TestEveryStatusReachableFromInitial(t *testing.T) {
	seen := map[Status]bool{StatusDealPingSent: true}
	queue := []Status{StatusDealPingSent}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for target := range transitionMap[current] {
			if !seen[target] {
				seen[target] = true
				queue = append(queue, target)
			}
		}
		// Cross-cutting edges.
		for _, target := range []Status{StatusDeclinedByBuyer, StatusDeclinedBySupplier, StatusCancelled} {
			var actor Actor
			switch target {
			case StatusDeclinedByBuyer:
				actor = ActorBuyer
			case StatusDeclinedBySupplier:
				actor = ActorSupplier
			default:
				actor = ActorSystem
			}
			if !seen[target] && ValidateTransition(current, target, actor, nil) == nil {
				seen[target] = true
				queue = append(queue, target)
			}
		}
	}
	for _, status := range AllStatuses() {
		if !seen[status] {
			t.Errorf("status %s unreachable from %s", status, StatusDealPingSent)
		}
	}
}

func TestExpiryTarget(t *testing.T) {
	if got := ExpiryTarget(StatusDealPingSent); got != StatusDealPingExpired {
		t.Errorf("ExpiryTarget(DEAL_PING_SENT) = %s, want %s", got, StatusDealPingExpired)
	}
	if got := ExpiryTarget(StatusAgreementSent); got != StatusExpired {
		t.Errorf("ExpiryTarget(AGREEMENT_SENT) = %s, want %s", got, StatusExpired)
	}
}
