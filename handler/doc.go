// Package handler speaks a vendor's AT command dialect on behalf of the
// session controller. A Handler hides modem-specific quirks behind a
// single interface; Base implements it generically enough to drive most
// GSM/UMTS modems, and also serves as the fallback the registry resolves
// to when no vendor-specific profile is registered.
package handler
