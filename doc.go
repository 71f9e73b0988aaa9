/*
Package authkit implements account signup with email verification and
password-based session authentication backed by MongoDB.

The flow is the following:

 1. A user signs up with an email and password. A verification link is
    emailed to the address by Authenticator.SignUp.
 2. The user follows the link, which is verified by
    Authenticator.VerifyEmail. Only verified accounts can log in.
 3. Authenticator.Login checks the password and issues two JWTs: a
    short-lived access token and a long-lived refresh token. The refresh
    token is also persisted against the account; it is the sole source of
    truth for session validity.
 4. Authenticator.Refresh exchanges a refresh token that still matches the
    stored one for a fresh access token.
 5. Authenticator.Logout clears the stored refresh token, revoking the
    session. Authenticator.DeleteAccount removes the account entirely.

An account holds at most one active refresh token; a new login supersedes
the previous session.

The HTTP surface lives in AuthController and carries the two tokens as
HttpOnly cookies. Persistence goes through the CredentialStore interface;
MongoStore is the production implementation and MemoryStore backs tests
and mail-less local runs.
*/
package authkit
