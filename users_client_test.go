package jobboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testUserJSON = `{
	"id": 42,
	"userName": null,
	"email": "tony@starkindustries.com",
	"fullname": "Tony Stark",
	"phone": "555-0100",
	"address": null,
	"avt": null,
	"role": "USER",
	"active": true,
	"isEmailVerified": true,
	"dob": null,
	"createdAt": "2024-05-04T10:00:00",
	"updatedAt": "2024-05-04T10:00:00"
}`

func TestUsersClientRegister(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/users/register", r.URL.Path)
				bodyBytes, err := ioutil.ReadAll(r.Body)
				require.NoError(t, err)
				registration := UserRegistration{}
				require.NoError(t, json.Unmarshal(bodyBytes, &registration))
				require.Equal(t, "Tony Stark", registration.Fullname)
				fmt.Fprintf(
					w,
					`{"code":1000,"result":{"keyRedisToken":"abc","email":%q}}`,
					testEmail,
				)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, nil)
	registration, err := client.Register(
		context.Background(),
		UserRegistration{
			Email:    testEmail,
			Password: testPassword,
			Fullname: "Tony Stark",
		},
	)
	require.NoError(t, err)
	require.Equal(t, "abc", registration.VerificationToken)
	require.Equal(t, testEmail, registration.Email)
}

func TestUsersClientRegisterConflict(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"code":1003,"message":"Email already exists"}`)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, nil)
	_, err := client.Register(context.Background(), UserRegistration{})
	require.IsType(t, &ErrBadRequest{}, err)
	require.Equal(t, CodeEmailExisted, err.(*ErrBadRequest).Code)
}

func TestUsersClientVerifyEmail(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/users/verify-email", r.URL.Path)
				bodyBytes, err := ioutil.ReadAll(r.Body)
				require.NoError(t, err)
				require.JSONEq(
					t,
					`{"keyRedisToken":"abc","otp":"123456"}`,
					string(bodyBytes),
				)
				fmt.Fprint(w, `{"code":1000,"result":"verified"}`)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, nil)
	require.NoError(
		t,
		client.VerifyEmail(
			context.Background(),
			EmailVerification{VerificationToken: "abc", OTP: "123456"},
		),
	)
}

func TestUsersClientGetMyInfo(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/users/my-info", r.URL.Path)
				require.Equal(
					t,
					fmt.Sprintf("Bearer %s", testAPIToken),
					r.Header.Get("Authorization"),
				)
				fmt.Fprintf(w, `{"code":1000,"result":%s}`, testUserJSON)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	user, err := client.GetMyInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, UserID("42"), user.ID)
	require.True(t, user.IsActive)
	require.Equal(t, RoleUser, user.Role)
	require.Equal(t, "Tony Stark", user.Fullname)
	require.Empty(t, user.Address)
	require.True(t, user.IsEmailVerified)
}

func TestUsersClientGetMyInfoProductionShape(t *testing.T) {
	// Exactly what the production backend renders: numeric id, "active"
	// rather than "isActive" and no email verification flag.
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(
					w,
					`{"code":1000,"result":{"id":7,"userName":"pepper",`+
						`"email":"pepper@starkindustries.com","fullname":"Pepper Potts",`+
						`"phone":null,"address":null,"avt":null,"dob":null,`+
						`"createdAt":"2024-05-04T10:00:00",`+
						`"updatedAt":"2024-05-04T10:00:00",`+
						`"active":true,"role":"EMPLOYER"}}`,
				)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	user, err := client.GetMyInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, UserID("7"), user.ID)
	require.Equal(t, RoleEmployer, user.Role)
	require.True(t, user.IsActive)
	require.False(t, user.IsEmailVerified)
}

func TestUsersClientGetMyInfoIncomplete(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(
					w,
					`{"code":1000,"result":{"id":"c0ffee","role":"SUPERHERO"}}`,
				)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	_, err := client.GetMyInfo(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "incomplete")
}

func TestUsersClientGetMyInfoExpired(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"code":1103,"message":"Token has expired"}`)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	_, err := client.GetMyInfo(context.Background())
	require.True(t, IsTokenExpired(err))
}

func TestUsersClientUpdateMyInfo(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPut, r.Method)
				require.Equal(t, "/users/my-info", r.URL.Path)
				require.Equal(
					t,
					fmt.Sprintf("Bearer %s", testAPIToken),
					r.Header.Get("Authorization"),
				)
				bodyBytes, err := ioutil.ReadAll(r.Body)
				require.NoError(t, err)
				require.JSONEq(
					t,
					`{"fullname":"Anthony Stark","phone":"555-0199"}`,
					string(bodyBytes),
				)
				fmt.Fprintf(w, `{"code":1000,"result":%s}`, testUserJSON)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	user, err := client.UpdateMyInfo(
		context.Background(),
		ProfileUpdate{Fullname: "Anthony Stark", Phone: "555-0199"},
	)
	require.NoError(t, err)
	require.Equal(t, UserID("42"), user.ID)
}

func TestUsersClientUpdateMyInfoIncomplete(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"code":1000,"result":{"id":42}}`)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	_, err := client.UpdateMyInfo(
		context.Background(),
		ProfileUpdate{Fullname: "Anthony Stark"},
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "incomplete")
}

func TestUsersClientChangePassword(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/users/change-password", r.URL.Path)
				require.Equal(
					t,
					fmt.Sprintf("Bearer %s", testAPIToken),
					r.Header.Get("Authorization"),
				)
				bodyBytes, err := ioutil.ReadAll(r.Body)
				require.NoError(t, err)
				require.JSONEq(
					t,
					`{"currentPassword":"iamironman","newPassword":"iampepper"}`,
					string(bodyBytes),
				)
				fmt.Fprint(
					w,
					`{"code":1000,"result":"Password changed successfully!!"}`,
				)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	require.NoError(
		t,
		client.ChangePassword(
			context.Background(),
			PasswordChange{
				CurrentPassword: testPassword,
				NewPassword:     "iampepper",
			},
		),
	)
}

func TestUsersClientChangePasswordWrongPassword(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(
					w,
					`{"code":1104,"message":"Current password is incorrect"}`,
				)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(server.URL, testClientOptions())
	err := client.ChangePassword(context.Background(), PasswordChange{})
	require.IsType(t, &ErrBadRequest{}, err)
	require.Equal(t, CodeWrongPassword, err.(*ErrBadRequest).Code)
	require.Equal(t, "Current password is incorrect", ServerMessage(err))
}
