/*
Package auction implements the auction engine: bid validation with escrow
holds, the time-driven lifecycle state machine, settlement, and the periodic
sweeper that advances auctions through time.

Money never moves outside a database transaction. Placing a bid locks the
auction row, validates state, price and funds, records the escrow hold and
the bid, and updates the current price as one unit. Settlement locks the
auction row, captures the winner's hammer price and releases every
outstanding hold as one unit. Different auctions proceed in parallel; the
row lock only serializes work on the same auction.

Escrowed amounts are never stored on the wallet. They are derived from the
ledger (holds minus releases per auction and wallet), so the audit trail and
the escrow state cannot drift apart.
*/
package auction
