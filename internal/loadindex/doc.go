// Package loadindex keeps the loads of open bins in a balanced ordered tree so
// packing heuristics can ask for the emptiest bin, the second emptiest bin,
// the tightest bin below a load, or a bin at an exact load in O(log m).
package loadindex
