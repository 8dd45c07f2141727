package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/config"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/media"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/payment"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeHost struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (h *fakeHost) Upload(ctx context.Context, r io.Reader, opts media.UploadOptions) (media.Resource, error) {
	if _, err := io.ReadAll(r); err != nil {
		return media.Resource{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := opts.Folder + "/" + uuid.NewString()
	h.uploaded = append(h.uploaded, id)
	return media.Resource{ID: id, Type: media.Classify(opts.ContentType)}, nil
}

func (h *fakeHost) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = append(h.deleted, id)
	return nil
}

type fakePayments struct {
	customers int
	intents   int
	cancelled []string
}

func (p *fakePayments) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	p.customers++
	return "cus_" + email, nil
}

func (p *fakePayments) CreatePaymentIntent(ctx context.Context, customerID string, amount int64, currency string) (payment.Intent, error) {
	p.intents++
	return payment.Intent{ID: "pi_" + uuid.NewString(), ClientSecret: "secret_" + customerID}, nil
}

func (p *fakePayments) CancelPaymentIntent(ctx context.Context, id string) error {
	p.cancelled = append(p.cancelled, id)
	return nil
}

type env struct {
	svc      *Service
	db       *gorm.DB
	host     *fakeHost
	payments *fakePayments
}

func setup(t *testing.T) *env {
	t.Helper()
	gdb, err := db.New(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))

	host := &fakeHost{}
	payments := &fakePayments{}
	svc, err := New(gdb, host, payments, "usd")
	require.NoError(t, err)
	return &env{svc: svc, db: gdb, host: host, payments: payments}
}

// member creates a user holding role and returns it as an actor.
func (e *env) member(t *testing.T, username, role string) Actor {
	t.Helper()
	u, err := e.svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", u.ID).Update("role_name", role).Error)
	return Actor{ID: u.ID, Mask: permission.DefaultRoles[role]}
}

func kindOf(err error) apierr.Kind {
	if e := apierr.Normalize(err); e != nil {
		return e.Kind
	}
	return ""
}

func TestRegister(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	u, err := e.svc.Register(ctx, RegisterRequest{Username: "alice", Email: " Alice@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.DisplayName)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, permission.RoleUser, u.RoleName)
	assert.Empty(t, u.PasswordHash, "secret columns are never loaded")
	assert.Empty(t, u.PaymentCustomerID)

	var stored models.User
	require.NoError(t, e.db.Take(&stored, "id = ?", u.ID).Error)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.Equal(t, "cus_alice@example.com", stored.PaymentCustomerID)

	_, err = e.svc.Register(ctx, RegisterRequest{Username: "alice", Email: "other@example.com", Password: "password123"})
	require.Error(t, err)
	ae := apierr.Normalize(err)
	assert.Equal(t, apierr.KindDuplicate, ae.Kind)
	assert.Contains(t, ae.Message, "username")
	assert.Equal(t, 409, ae.Status())

	_, err = e.svc.Register(ctx, RegisterRequest{Username: "b", Email: "bad", Password: "x"})
	assert.Equal(t, apierr.KindInvalidRequest, kindOf(err))
}

func TestListUsersUsesSafeProjection(t *testing.T) {
	e := setup(t)
	e.member(t, "carol", permission.RoleUser)
	e.member(t, "bob", permission.RoleUser)
	e.member(t, "alice", permission.RoleUser)

	page, err := e.svc.ListUsers(context.Background(), Page{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alice", page.Items[0].Username)
	for _, u := range page.Items {
		assert.Empty(t, u.PasswordHash)
		assert.Empty(t, u.PaymentCustomerID)
	}

	page, err = e.svc.ListUsers(context.Background(), Page{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "carol", page.Items[0].Username)
}

func TestUpdateProfileAndAvatar(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.member(t, "alice", permission.RoleUser)

	bio := "  I run a shelter  "
	u, err := e.svc.UpdateProfile(ctx, a, UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "I run a shelter", u.Bio)
	assert.Equal(t, "alice", u.DisplayName)

	_, err = e.svc.SetAvatar(ctx, a, Upload{Reader: strings.NewReader("%PDF"), Filename: "a.pdf", ContentType: "application/pdf"})
	assert.Equal(t, apierr.KindInvalidRequest, kindOf(err))

	first, err := e.svc.SetAvatar(ctx, a, Upload{Reader: strings.NewReader("png"), Filename: "a.png", ContentType: "image/png"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.AvatarID)

	second, err := e.svc.SetAvatar(ctx, a, Upload{Reader: strings.NewReader("png"), Filename: "b.png", ContentType: "image/png"})
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarID, second.AvatarID)
	assert.Equal(t, []string{first.AvatarID}, e.host.deleted)
}

func TestSetAvatarWithoutMediaHost(t *testing.T) {
	e := setup(t)
	e.svc.media = media.NoneHost{}
	a := e.member(t, "alice", permission.RoleUser)

	_, err := e.svc.SetAvatar(context.Background(), a, Upload{Reader: strings.NewReader("png"), Filename: "a.png", ContentType: "image/png"})
	assert.Equal(t, apierr.KindInvalidInput, kindOf(err))
}

func TestUpdateUserRole(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	vol := e.member(t, "vol", permission.RoleVolunteer)
	user := e.member(t, "user", permission.RoleUser)
	admin := e.member(t, "admin", permission.RoleAdmin)

	u, err := e.svc.UpdateUserRole(ctx, vol, user.ID, UpdateRoleRequest{Role: permission.RoleVolunteer})
	require.NoError(t, err)
	assert.Equal(t, permission.RoleVolunteer, u.RoleName)

	// Cannot hand out capabilities the caller lacks.
	_, err = e.svc.UpdateUserRole(ctx, vol, user.ID, UpdateRoleRequest{Role: permission.RoleAdmin})
	assert.Equal(t, apierr.KindForbidden, kindOf(err))

	// Cannot demote someone holding more.
	_, err = e.svc.UpdateUserRole(ctx, vol, admin.ID, UpdateRoleRequest{Role: permission.RoleUser})
	assert.Equal(t, apierr.KindForbidden, kindOf(err))

	_, err = e.svc.UpdateUserRole(ctx, vol, user.ID, UpdateRoleRequest{Role: "Ghost"})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	_, err = e.svc.UpdateUserRole(ctx, vol, uuid.New(), UpdateRoleRequest{Role: permission.RoleUser})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	var logs []models.AuditLog
	require.NoError(t, e.db.Where("action = ?", "update_user_role").Find(&logs).Error)
	assert.Len(t, logs, 1)
}

func TestSetBanned(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	mod := e.member(t, "mod", permission.RoleModerator)
	user := e.member(t, "user", permission.RoleUser)
	admin := e.member(t, "admin", permission.RoleAdmin)

	_, err := e.svc.SetBanned(ctx, mod, mod.ID, true)
	assert.Equal(t, apierr.KindInvalidRequest, kindOf(err))

	u, err := e.svc.SetBanned(ctx, mod, user.ID, true)
	require.NoError(t, err)
	assert.True(t, u.Banned)

	u, err = e.svc.SetBanned(ctx, mod, user.ID, false)
	require.NoError(t, err)
	assert.False(t, u.Banned)

	_, err = e.svc.SetBanned(ctx, mod, admin.ID, true)
	assert.Equal(t, apierr.KindForbidden, kindOf(err))
}

func TestFollow(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	alice := e.member(t, "alice", permission.RoleUser)
	bob := e.member(t, "bob", permission.RoleUser)

	assert.Equal(t, apierr.KindInvalidRequest, kindOf(e.svc.Follow(ctx, alice, alice.ID)))
	assert.Equal(t, apierr.KindNotFound, kindOf(e.svc.Follow(ctx, alice, uuid.New())))

	require.NoError(t, e.svc.Follow(ctx, alice, bob.ID))
	require.NoError(t, e.svc.Follow(ctx, alice, bob.ID))

	followers, err := e.svc.Followers(ctx, bob.ID, Page{})
	require.NoError(t, err)
	require.Len(t, followers.Items, 1)
	assert.Equal(t, alice.ID, followers.Items[0].ID)
	assert.Empty(t, followers.Items[0].PasswordHash)

	following, err := e.svc.Following(ctx, alice.ID, Page{})
	require.NoError(t, err)
	require.Len(t, following.Items, 1)
	assert.Equal(t, bob.ID, following.Items[0].ID)

	require.NoError(t, e.svc.Unfollow(ctx, alice, bob.ID))
	followers, err = e.svc.Followers(ctx, bob.ID, Page{})
	require.NoError(t, err)
	assert.Empty(t, followers.Items)
}

func TestRoles(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	admin := e.member(t, "admin", permission.RoleAdmin)

	_, err := e.svc.CreateRole(ctx, admin, RoleRequest{Name: "Curator", Permissions: []string{"fly"}})
	assert.Equal(t, apierr.KindInvalidRequest, kindOf(err))

	role, err := e.svc.CreateRole(ctx, admin, RoleRequest{Name: "Curator", Permissions: []string{"create_posts", "moderate_content"}})
	require.NoError(t, err)
	assert.Equal(t, permission.CreatePosts|permission.ModerateContent, role.Permissions)
	assert.ElementsMatch(t, []string{"create_posts", "moderate_content"}, role.Capabilities)

	_, err = e.svc.CreateRole(ctx, admin, RoleRequest{Name: "Curator"})
	assert.Equal(t, apierr.KindDuplicate, kindOf(err))

	role, err = e.svc.UpdateRole(ctx, admin, "Curator", RoleRequest{Description: "curates", Permissions: []string{"create_posts"}})
	require.NoError(t, err)
	assert.Equal(t, permission.CreatePosts, role.Permissions)
	assert.Equal(t, "curates", role.Description)

	_, err = e.svc.UpdateRole(ctx, admin, "Nobody", RoleRequest{})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))
	_, err = e.svc.UpdateRole(ctx, admin, permission.RoleAdmin, RoleRequest{Permissions: []string{"create_posts"}})
	assert.Equal(t, apierr.KindInvalidInput, kindOf(err))

	assert.Equal(t, apierr.KindInvalidInput, kindOf(e.svc.DeleteRole(ctx, admin, permission.RoleUser)))

	curator := e.member(t, "curator", "Curator")
	assert.Equal(t, apierr.KindInvalidRef, kindOf(e.svc.DeleteRole(ctx, admin, "Curator")))
	_, err = e.svc.UpdateUserRole(ctx, admin, curator.ID, UpdateRoleRequest{Role: permission.RoleUser})
	require.NoError(t, err)
	require.NoError(t, e.svc.DeleteRole(ctx, admin, "Curator"))
	assert.Equal(t, apierr.KindNotFound, kindOf(e.svc.DeleteRole(ctx, admin, "Curator")))

	roles, err := e.svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 4)
}

func TestPostOwnership(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	author := e.member(t, "author", permission.RoleVolunteer)
	other := e.member(t, "other", permission.RoleVolunteer)
	mod := e.member(t, "mod", permission.RoleModerator)

	post, err := e.svc.CreatePost(ctx, author, CreatePostRequest{Title: "Roof repair", GoalAmount: 50000},
		&Upload{Reader: strings.NewReader("jpg"), Filename: "roof.jpg", ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "usd", post.Currency)
	assert.Equal(t, "image", post.ImageType)
	require.NotNil(t, post.Author)
	assert.Empty(t, post.Author.PasswordHash)

	title := "Hijacked"
	_, err = e.svc.UpdatePost(ctx, other, post.ID, UpdatePostRequest{Title: &title})
	assert.Equal(t, apierr.KindForbidden, kindOf(err))

	title = "New roof"
	updated, err := e.svc.UpdatePost(ctx, mod, post.ID, UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New roof", updated.Title)

	assert.Equal(t, apierr.KindForbidden, kindOf(e.svc.DeletePost(ctx, other, post.ID)))
	require.NoError(t, e.svc.DeletePost(ctx, author, post.ID))
	assert.Equal(t, []string{post.ImageID}, e.host.deleted)

	_, err = e.svc.GetPost(ctx, post.ID)
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	list, err := e.svc.ListPosts(ctx, PostFilter{AuthorID: &author.ID})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestCreateComment(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	author := e.member(t, "author", permission.RoleVolunteer)
	user := e.member(t, "user", permission.RoleUser)
	post, err := e.svc.CreatePost(ctx, author, CreatePostRequest{Title: "Books for kids"}, nil)
	require.NoError(t, err)

	c, err := e.svc.CreateComment(ctx, user, post.ID, CommentRequest{Body: " great cause "})
	require.NoError(t, err)
	assert.Equal(t, "great cause", c.Body)
	require.NotNil(t, c.Author)
	assert.Equal(t, "user", c.Author.Username)

	_, err = e.svc.CreateComment(ctx, user, uuid.New(), CommentRequest{Body: "hello"})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	list, err := e.svc.ListComments(ctx, post.ID, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	assert.Equal(t, apierr.KindForbidden, kindOf(e.svc.DeleteComment(ctx, author, c.ID)))
	require.NoError(t, e.svc.DeleteComment(ctx, user, c.ID))
}

func TestCreateComment_PostDeletedMidTransaction(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	author := e.member(t, "author", permission.RoleVolunteer)
	post, err := e.svc.CreatePost(ctx, author, CreatePostRequest{Title: "Clean water"}, nil)
	require.NoError(t, err)

	e.svc.afterCheck = func(tx *gorm.DB) {
		require.NoError(t, tx.Exec("DELETE FROM posts WHERE id = ?", post.ID).Error)
	}
	_, err = e.svc.CreateComment(ctx, author, post.ID, CommentRequest{Body: "first!"})
	require.Error(t, err)
	ae := apierr.Normalize(err)
	assert.Equal(t, apierr.KindNotFound, ae.Kind)
	assert.Equal(t, 404, ae.Status())

	var comments int64
	require.NoError(t, e.db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, comments, "no partial write")
}

func TestReactions(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	author := e.member(t, "author", permission.RoleVolunteer)
	fan := e.member(t, "fan", permission.RoleUser)
	post, err := e.svc.CreatePost(ctx, author, CreatePostRequest{Title: "Food bank"}, nil)
	require.NoError(t, err)

	_, err = e.svc.React(ctx, fan, post.ID, ReactRequest{Kind: "meh"})
	assert.Equal(t, apierr.KindInvalidRequest, kindOf(err))

	_, err = e.svc.React(ctx, fan, post.ID, ReactRequest{Kind: "like"})
	require.NoError(t, err)
	r, err := e.svc.React(ctx, fan, post.ID, ReactRequest{Kind: "love"})
	require.NoError(t, err)
	assert.Equal(t, models.ReactionLove, r.Kind)
	_, err = e.svc.React(ctx, author, post.ID, ReactRequest{Kind: "support"})
	require.NoError(t, err)

	summary, err := e.svc.ReactionSummary(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Total)
	assert.EqualValues(t, 0, summary.Counts[models.ReactionLike])
	assert.EqualValues(t, 1, summary.Counts[models.ReactionLove])
	assert.EqualValues(t, 1, summary.Counts[models.ReactionSupport])

	require.NoError(t, e.svc.Unreact(ctx, fan, post.ID))
	summary, err = e.svc.ReactionSummary(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.Total)

	_, err = e.svc.React(ctx, fan, uuid.New(), ReactRequest{Kind: "like"})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))
}

func TestChats(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	alice := e.member(t, "alice", permission.RoleUser)
	bob := e.member(t, "bob", permission.RoleUser)
	eve := e.member(t, "eve", permission.RoleUser)

	_, err := e.svc.CreateChat(ctx, alice, CreateChatRequest{MemberIDs: []string{uuid.NewString()}})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	_, err = e.svc.CreateChat(ctx, alice, CreateChatRequest{MemberIDs: []string{"not-a-uuid"}})
	assert.Equal(t, apierr.KindInvalidRequest, kindOf(err))

	chat, err := e.svc.CreateChat(ctx, alice, CreateChatRequest{Title: "planning", MemberIDs: []string{bob.ID.String(), alice.ID.String()}})
	require.NoError(t, err)
	assert.Len(t, chat.Members, 2)

	_, err = e.svc.PostMessage(ctx, eve, chat.ID, MessageRequest{Body: "let me in"})
	assert.Equal(t, apierr.KindForbidden, kindOf(err))
	_, err = e.svc.ListMessages(ctx, eve, chat.ID, Page{})
	assert.Equal(t, apierr.KindForbidden, kindOf(err))
	_, err = e.svc.PostMessage(ctx, alice, uuid.New(), MessageRequest{Body: "hi"})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	msg, err := e.svc.PostMessage(ctx, bob, chat.ID, MessageRequest{Body: "hi alice"})
	require.NoError(t, err)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "bob", msg.Sender.Username)

	msgs, err := e.svc.ListMessages(ctx, alice, chat.ID, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, msgs.Total)

	chats, err := e.svc.ListChats(ctx, bob, Page{})
	require.NoError(t, err)
	require.Len(t, chats.Items, 1)
	chats, err = e.svc.ListChats(ctx, eve, Page{})
	require.NoError(t, err)
	assert.Empty(t, chats.Items)
}

func TestDonate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	author := e.member(t, "author", permission.RoleVolunteer)
	donor := e.member(t, "donor", permission.RoleUser)
	post, err := e.svc.CreatePost(ctx, author, CreatePostRequest{Title: "Scholarships", Currency: "EUR"}, nil)
	require.NoError(t, err)

	// Customers created at registration are reused.
	customersBefore := e.payments.customers
	res, err := e.svc.Donate(ctx, donor, post.ID, DonationRequest{Amount: 2500})
	require.NoError(t, err)
	assert.Equal(t, customersBefore, e.payments.customers)
	assert.Equal(t, models.DonationPending, res.Donation.Status)
	assert.Equal(t, "eur", res.Donation.Currency)
	assert.Equal(t, "secret_cus_donor@example.com", res.ClientSecret)

	_, err = e.svc.Donate(ctx, donor, post.ID, DonationRequest{Amount: 0})
	assert.Equal(t, apierr.KindInvalidRequest, kindOf(err))
	_, err = e.svc.Donate(ctx, donor, uuid.New(), DonationRequest{Amount: 100})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	list, err := e.svc.ListDonations(ctx, post.ID, Page{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.NotNil(t, list.Items[0].Donor)
	assert.Empty(t, list.Items[0].Donor.PaymentCustomerID)
	assert.Empty(t, e.payments.cancelled)
}

func TestDonate_PostDeletedConcurrently(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	author := e.member(t, "author", permission.RoleVolunteer)
	donor := e.member(t, "donor", permission.RoleUser)
	post, err := e.svc.CreatePost(ctx, author, CreatePostRequest{Title: "Flood relief"}, nil)
	require.NoError(t, err)

	e.svc.afterCheck = func(tx *gorm.DB) {
		require.NoError(t, tx.Exec("DELETE FROM posts WHERE id = ?", post.ID).Error)
	}
	_, err = e.svc.Donate(ctx, donor, post.ID, DonationRequest{Amount: 1000})
	assert.Equal(t, apierr.KindNotFound, kindOf(err))

	var donations int64
	require.NoError(t, e.db.Model(&models.Donation{}).Count(&donations).Error)
	assert.Zero(t, donations)

	// Every intent opened for the failed donation was cancelled.
	require.Equal(t, 1, e.payments.intents)
	assert.Len(t, e.payments.cancelled, e.payments.intents)
}

func TestDonate_CreatesCustomerLazily(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	author := e.member(t, "author", permission.RoleVolunteer)
	donor := e.member(t, "donor", permission.RoleUser)
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", donor.ID).Update("payment_customer_id", "").Error)
	post, err := e.svc.CreatePost(ctx, author, CreatePostRequest{Title: "Trees"}, nil)
	require.NoError(t, err)

	before := e.payments.customers
	_, err = e.svc.Donate(ctx, donor, post.ID, DonationRequest{Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, before+1, e.payments.customers)

	e.svc.payments = payment.None{}
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", donor.ID).Update("payment_customer_id", "").Error)
	_, err = e.svc.Donate(ctx, donor, post.ID, DonationRequest{Amount: 100})
	assert.Equal(t, apierr.KindInvalidInput, kindOf(err))
}
