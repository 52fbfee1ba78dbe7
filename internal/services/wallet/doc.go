/*
Package wallet provides the wallet ledger: the spendable balance per user and
the append-only transaction trail behind it.

Every balance change is recorded as a WalletTransaction in the same database
transaction that applies it. Escrow holds and releases live in the same
ledger but never touch the balance. The held amount for an auction is
derived by summing the matching hold and release rows, which keeps the audit
trail as the single source of truth.

Usage:

	svc := wallet.NewService(repo, cache, metrics)

	w, err := svc.GetWallet(ctx, userID)
	err = svc.TopUp(ctx, userID, amount, paymentID)
	err = svc.ChargePostFee(ctx, userID, fee, postID)
	held, err := svc.HeldAmount(ctx, auctionID, userID)
*/
package wallet
