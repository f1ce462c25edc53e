// Package capgains computes realized capital gains from brokerage trades
// for tax reporting.
//
// The engine works on a batch of trades of a single account:
//   - Symbol normalization: trades are grouped per instrument, after removing
//     the lowercase suffix some brokers append to foreign listed symbols.
//   - FIFO matching: for each instrument, trades are matched in time order
//     against the oldest open lots of the opposite direction. Partial closes
//     cut a lot in two so that every Lot has at most one closing trade.
//   - Realized gains: each lot gets an open and a close profit in EUR, with
//     fees and values apportioned pro-rata to the lot quantity.
//   - Views: lots can be read open-first (one lot after the other), or
//     close-first (grouped by closing trade), and filtered by tax year.
//
// Trades are read from JSONL or JSON files by this package, and from IBKR
// Flex Query reports by the flex package. Reports are rendered by the
// renderer and export packages, and the ibtax command line tool wires it all.
package capgains
