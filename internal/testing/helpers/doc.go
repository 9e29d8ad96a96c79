// Package helpers provides test utility functions for the Guildhall API.
//
// # Pointer Helpers
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//	flag := helpers.BoolPtr(true)
//
// # JWT Helpers
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	token := jwtHelper.GenerateToken(user)
//
// # Assertion Helpers
//
//	helpers.AssertProblemDetails(t, rec, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertRecordExists(t, db, "quest", quest.ID)
package helpers
