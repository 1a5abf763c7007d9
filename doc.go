// Package jobly is a job board backend: companies post jobs, users apply
// to them and admins curate the catalogue over a JSON API.
//
// Request flow:
//   - Every route runs Guards.Authenticate, which reads a token from the
//     Authorization header, the _token body field or the _token query
//     parameter. A valid token puts an Identity on the request, anything
//     else leaves it anonymous. Authenticate never rejects.
//   - Guards.RequireLoggedIn, RequireSameIdentity and RequireAdmin reject
//     with 401 {"status":401,"message":"Unauthorized"} and stop the chain.
//   - Create and update payloads are decoded and checked by ValidateBody.
//     On those routes validation is mounted before the guards, so a bad
//     body gets a 400 even from an anonymous caller.
//   - Handlers return errors. ErrorHandler renders them as
//     {"status": code, "message": text}.
//
// Persistence:
//   - RepositoryManager hands out the company, job, user, application and
//     technology repositories on top of bun. Partial updates go through
//     sqlpatch, which only accepts columns from a per table allow list.
//   - Schema migrations are embedded, see GetMigrationsFS.
package jobly
