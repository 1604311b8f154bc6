package service_test

import (
	"context"
	"sync"

	"github.com/spec-kit/invoich-web/internal/domain"
)

type fakeCustomerAPI struct {
	mu          sync.Mutex
	listCalls   int
	deleteCalls []string
	uploads     []domain.UploadFile
	tokens      []string

	list   func(ctx context.Context, call int) ([]domain.RawCustomer, error)
	delete func(ctx context.Context, id string) (string, error)
	upload func(ctx context.Context, file domain.UploadFile) error
}

func (f *fakeCustomerAPI) ListCustomers(ctx context.Context, token string) ([]domain.RawCustomer, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.tokens = append(f.tokens, token)
	fn := f.list
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, call)
}

func (f *fakeCustomerAPI) DeleteCustomer(ctx context.Context, _ string, id string) (string, error) {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, id)
	fn := f.delete
	f.mu.Unlock()
	if fn == nil {
		return "", nil
	}
	return fn(ctx, id)
}

func (f *fakeCustomerAPI) UploadCustomersCSV(ctx context.Context, file domain.UploadFile) error {
	f.mu.Lock()
	f.uploads = append(f.uploads, file)
	fn := f.upload
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, file)
}

func (f *fakeCustomerAPI) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeCustomerAPI) DeleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleteCalls...)
}

func (f *fakeCustomerAPI) Uploads() []domain.UploadFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.UploadFile(nil), f.uploads...)
}

type fakeOTPAPI struct {
	mu    sync.Mutex
	calls [][2]string
	fn    func(ctx context.Context) (string, error)
}

func (f *fakeOTPAPI) VerifyOTP(ctx context.Context, otp, email string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, [2]string{otp, email})
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return "", nil
	}
	return fn(ctx)
}

func (f *fakeOTPAPI) Calls() [][2]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]string(nil), f.calls...)
}

func rawCustomers() []domain.RawCustomer {
	return []domain.RawCustomer{
		{ID: "c1", DisplayName: "Alice", CompanyName: "Acme", Email: "alice@acme.io", PhoneNumber: "111", UserID: "u1"},
		{ID: "c2", DisplayName: "Bob", CompanyName: "Globex", Email: "bob@globex.com", PhoneNumber: "222", UserID: "u2"},
		{ID: "c3", DisplayName: "Carol", CompanyName: "Initech", Email: "carol@initech.org", PhoneNumber: "333", UserID: "u1"},
		{ID: "c4", DisplayName: "Dave", CompanyName: "Hooli", Email: "dave@hooli.xyz", PhoneNumber: "444", UserID: "u1"},
	}
}

func testSession() domain.Session {
	return domain.Session{ID: "s1", UserID: "u1", Token: "tok"}
}
