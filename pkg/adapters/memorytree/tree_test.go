package memorytree

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/goliatone/go-broadcast/pkg/interfaces/topology"
)

func TestTopologyNavigation(t *testing.T) {
	tree := New()
	root, err := tree.NewRoot("root")
	if err != nil {
		t.Fatalf("new root: %v", err)
	}
	child, err := root.Spawn("child")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	grandchild, err := child.Spawn("grandchild")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	if _, ok := tree.Parent(root); ok {
		t.Fatal("root must have no parent")
	}
	parent, ok := tree.Parent(grandchild)
	if !ok || parent.ID() != "child" {
		t.Fatalf("expected parent child, got %v", parent)
	}
	kids := tree.Children(root)
	if len(kids) != 1 || kids[0].ID() != "child" {
		t.Fatalf("unexpected children: %v", kids)
	}
	if !tree.IsSelf(child, kids[0]) {
		t.Fatal("expected IsSelf to match same realm")
	}
	if tree.IsSelf(root, child) {
		t.Fatal("expected IsSelf to reject distinct realms")
	}
}

func TestDuplicateRealmID(t *testing.T) {
	tree := New()
	if _, err := tree.NewRoot("root"); err != nil {
		t.Fatalf("new root: %v", err)
	}
	if _, err := tree.NewRoot("root"); err == nil {
		t.Fatal("expected error for duplicate realm id")
	}
}

func TestSendDeliversWithSender(t *testing.T) {
	tree := New()
	root, _ := tree.NewRoot("root")
	child, _ := root.Spawn("child")

	var gotSender topology.Realm
	var gotWrapper domain.Wrapper
	child.Attach(func(ctx context.Context, sender topology.Realm, w domain.Wrapper) {
		gotSender = sender
		gotWrapper = w
	})

	w := domain.Wrap(&domain.Envelope{Type: "app:ping"})
	if err := root.Transport().Send(context.Background(), child, w); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotSender == nil || gotSender.ID() != "root" {
		t.Fatalf("expected sender root, got %v", gotSender)
	}
	if !gotWrapper.Valid() || gotWrapper.Broadcast.Type != "app:ping" {
		t.Fatalf("unexpected wrapper: %+v", gotWrapper)
	}
}

func TestSendToDeniedRealm(t *testing.T) {
	tree := New()
	root, _ := tree.NewRoot("root")
	child, _ := root.Spawn("child")
	child.Deny(true)

	err := root.Transport().Send(context.Background(), child, domain.Wrapper{})
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}

	child.Deny(false)
	if err := root.Transport().Send(context.Background(), child, domain.Wrapper{}); err != nil {
		t.Fatalf("expected delivery after allow, got %v", err)
	}
}

func TestSendWithoutHandlerIsDropped(t *testing.T) {
	tree := New()
	root, _ := tree.NewRoot("root")
	child, _ := root.Spawn("child")

	if err := root.Transport().Send(context.Background(), child, domain.Wrapper{}); err != nil {
		t.Fatalf("expected silent drop, got %v", err)
	}
}
