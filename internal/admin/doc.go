// Package admin is the superuser-only platform API: business
// registration, verification, and the four independent
// suspend/reactivate operations (user, business, subscription,
// employee). These endpoints are the only writers of the suspension
// flags the gate reads.
package admin
