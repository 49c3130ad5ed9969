// Package domain defines the entities the bot persists: accounts, their
// profiles, the sites an account watches and the forms found on those sites.
// It is independent of any storage engine.
package domain
