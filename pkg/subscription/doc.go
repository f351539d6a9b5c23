// Package subscription tracks each tenant's plan and lifecycle status.
//
// Subscriptions live in platform-shared storage keyed by tenant id, one
// row per tenant. Plans are configuration shipped as a YAML catalog, not
// rows: a subscription references its plan by id and the catalog resolves
// the rest.
//
// The lifecycle is trialing -> active -> past_due/cancelled. A tenant in
// good standing is either active or trialing with time left; everything
// else trips the subscription stage of the suspension gate.
package subscription
