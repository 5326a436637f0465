// Package catalog imports product catalog rows from a delimited file.
//
// Rows flow through a fixed sequence of steps, one row at a time:
//
//  1. [Source] reads a row and normalizes each field to UTF-8
//  2. [MapRow] zips the row onto the header
//  3. [Validate] checks required fields and numeric formats
//  4. [Filter] drops low-value, low-stock items and implausible prices
//  5. [Enrich] stamps the discontinued and imported timestamps
//  6. [Sanitize] strips typographic quotes and whitespace
//  7. A [Writer] inserts the resulting [Product]
//
// [Importer.Run] drives the loop and fills a [Report]. Rows that fail a check
// are counted as skipped, rows the store rejects are collected as failed, and
// neither stops the run. In dry-run mode the loop stops after step 5 and
// counts the row as succeeded.
package catalog
