// Package notifier renders schedule change reports and delivers them by
// email.
//
// MailNotifier talks to a SendGrid-compatible mail-send API and degrades to a
// skip when credentials are absent, so the pipeline can run store-only.
// DryRunNotifier prints the would-be email instead of sending it.
package notifier
