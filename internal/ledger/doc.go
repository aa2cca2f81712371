// Package ledger lays out categorized transactions in the spreadsheet.
//
// A year tab holds one 10-column block per month. Row 1 carries the month
// name at the block midpoint, row 2 the bank type of each sub-block and data
// starts at row 3. The Master tab holds one summary row per imported
// statement.
//
// The package assumes at most one writer per spreadsheet. Block allocation
// reads row 1 and then writes a label; the Master header check reads the
// header and then rewrites it. Neither is atomic, so two concurrent imports
// (or a manual edit in between) can allocate the same block twice or
// overwrite a newer header. No locking is attempted.
package ledger
