// Package model defines shared data types used across the bot.
//
// Conventions:
//   - Prices and money: shopspring decimal, USD
//   - User IDs: int64 surrogate keys; Telegram IDs are kept separately
//   - Reward IDs: uuid.UUID
package model
