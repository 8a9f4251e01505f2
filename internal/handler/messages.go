package handler

// Caller-safe failure messages. Lookup failures deliberately use one generic
// message whether the target is absent, deleted, or simply not visible to the
// caller, so existence is never observable to non-members.
const (
	msgSessionFailure    = "Unable to retrieve session data."
	msgDatabaseFailure   = "Unable to interact with database"
	msgParseFailure      = "Invalid format. Unable to parse data."
	msgMoneyMapNotFound  = "Unable to find money map"
	msgMoneyMapInvalidID = "Failed to find money map. Invalid ID."
	msgAccountNotFound   = "Unable to find account"
	msgAccountInvalidID  = "Failed to find account. Invalid ID."

	msgMoneyMapCreateFailure = "Unable to create money map"
	msgMoneyMapSaveFailure   = "Unable to save money map"
	msgMoneyMapDeleteFailure = "Unable to delete money map"
	msgMoneyMapDeleted       = "Successfully deleted money map"
	msgMemberDetailsFailure  = "Unable to find user details for money map"
	msgOwnerOnly             = "Only the money map owner can manage users"
	msgOwnerIrremovable      = "The money map owner cannot be removed"
	msgUserInvalidID         = "Failed to find money map. Invalid user ID."

	msgAccountCreateFailure     = "Unable to create account"
	msgTransactionCreateFailure = "Unable to create transaction"
	msgStatementCreateFailure   = "Unable to create account statement"

	msgUserNotFound      = "Unable to find user"
	msgUserCreateFailure = "Unable to create user"
	msgUserUpdateFailure = "Unable to update user"
	msgLoginFailure      = "Invalid email address or password"
	msgLogoutFailure     = "Unable to log out"
	msgTokenFailure      = "Unable to create session"
)
