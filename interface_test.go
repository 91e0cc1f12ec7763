// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"errors"
	"testing"

	"github.com/asynchttp/asynchttp/query"
	"github.com/asynchttp/asynchttp/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(r *request.Request) bool {
			return r.Method() == "GET" && r.URL() == "foo?a=1&b=2"
		}), true, mock.Anything).Return(nil).Once()
		r := Get(m, "foo", query.Values{}.Add("a", "1").Add("b", "2"), true, OnString(nil, nil))
		require.NotNil(t, r)
		assert.NotEmpty(t, r.ID())
		m.AssertExpectations(t)
	})
	t.Run("no params", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(r *request.Request) bool {
			return r.URL() == "foo"
		}), false, nil).Return(nil).Once()
		assert.NotNil(t, Get(m, "foo", nil, false, nil))
		m.AssertExpectations(t)
	})
	t.Run("empty URL", func(t *testing.T) {
		m := newMockDoer(t)
		assert.Nil(t, Get(m, "", query.Values{}.Add("a", "1"), true, OnString(nil, nil)))
		m.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("Do error", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.Anything, false, nil).Return(ErrClosed).Once()
		assert.Nil(t, Get(m, "foo", nil, false, nil))
		m.AssertExpectations(t)
	})
}

func TestPost(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(r *request.Request) bool {
			return r.Method() == "POST" && r.URL() == "baz?ham=eggs spam"
		}), false, mock.Anything).Return(nil).Once()
		r := Post(m, "baz", query.Values{}.Add("ham", "eggs spam"), false, OnObject(nil, nil))
		require.NotNil(t, r)
		assert.Equal(t, "POST baz?ham=eggs spam", r.String())
		m.AssertExpectations(t)
	})
	t.Run("empty URL", func(t *testing.T) {
		m := newMockDoer(t)
		assert.Nil(t, Post(m, "", nil, false, nil))
		m.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("Do error", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.Anything, true, nil).Return(errors.New("nope")).Once()
		assert.Nil(t, Post(m, "baz", nil, true, nil))
		m.AssertExpectations(t)
	})
}

func TestInflate(t *testing.T) {
	t.Run("Inflate", func(t *testing.T) {
		t.Run("nil doer", func(t *testing.T) {
			assert.PanicsWithValue(t, "asynchttp: nil doer", func() {
				Inflate(nil)
			})
		})
		t.Run("already an Executor", func(t *testing.T) {
			cl := &Client{}
			x := Inflate(cl)
			assert.Same(t, cl, x)
		})
		t.Run("not yet an Executor", func(t *testing.T) {
			m := newMockDoer(t)
			x := Inflate(m)
			require.IsType(t, inflated{}, x)
			assert.Same(t, m, x.(inflated).doer)
		})
	})
	t.Run("Do", func(t *testing.T) {
		r, err := request.New(request.MethodPost, "http://www.randomcollections.com/widgets/1")
		require.NoError(t, err)
		m := newMockDoer(t)
		m.On("Do", r, true, nil).Return(nil).Once()
		x := Inflate(m)
		assert.NoError(t, x.Do(r, true, nil))
		m.AssertExpectations(t)
	})
	t.Run("Get", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(r *request.Request) bool {
			return r.Method() == "GET" && r.URL() == "bar?x=y"
		}), false, nil).Return(nil).Once()
		x := Inflate(m)
		assert.NotNil(t, x.Get("bar", query.Values{}.Add("x", "y"), false, nil))
		m.AssertExpectations(t)
	})
	t.Run("Post", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(r *request.Request) bool {
			return r.Method() == "POST" && r.URL() == "ham"
		}), true, nil).Return(nil).Once()
		x := Inflate(m)
		assert.NotNil(t, x.Post("ham", nil, true, nil))
		m.AssertExpectations(t)
	})
}

type mockDoer struct {
	mock.Mock
}

func newMockDoer(t *testing.T) *mockDoer {
	m := &mockDoer{}
	m.Test(t)
	return m
}

func (m *mockDoer) Do(r *request.Request, respondOnMain bool, h ResponseHandler) error {
	args := m.Called(r, respondOnMain, h)
	return args.Error(0)
}
