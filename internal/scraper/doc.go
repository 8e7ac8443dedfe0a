// Package scraper provides HTTP fetching and HTML table extraction for the
// monitored schedule page.
//
// The scraper issues a single GET with a browser-like User-Agent, locates the
// first <table> element in the response, and converts it into a
// schedule.Table: the first row supplies the column names, every later row
// becomes a data row. Pages without a usable table are reported as parse
// failures rather than empty tables.
package scraper
