// Package taxlot computes tax-reportable stock-sale events from a
// chronological history of buy and sell transactions across multiple
// brokerage accounts.
//
// The core functionalities include:
//   - Ledger Management: Recording buys, sells, splits, liquidations and
//     wash-group declarations in an append-only, chronologically replayed
//     record.
//   - Lot Matching: Maintaining per-brokerage, per-ticker buy-lot
//     inventories and matching every sale against them, oldest-first or
//     following an explicit lot schedule.
//   - Wash-Sale Analysis: Detecting loss sales with substantially identical
//     purchases inside the 61-day window, across brokerages and declared
//     wash groups, and carrying the disallowed loss into the basis of the
//     triggering lots.
//   - Reporting: Producing the sale items and residual holdings that feed
//     the sales and holdings reports.
//
// All share counts and dollar amounts are exact decimals; nothing is rounded
// before presentation. This package serves as the foundational logic for the
// `stt` command-line tool.
package taxlot
