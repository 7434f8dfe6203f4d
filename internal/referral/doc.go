// Package referral implements the Referral Propagator.
//
// When a user completes a trade every ancestor in the user's referrer chain
// is credited a commission on the trade amount. Credits accumulate on one
// pending reward record per (referrer, referred) edge and a whole chain is
// applied in a single store transaction.
//
// The referrer graph must be a forest. Traversals carry a visited set and a
// depth cap; a violation is returned as an *IntegrityError, which is kept
// distinct from the user-facing rejections reported by ApplyReferralCode.
package referral
