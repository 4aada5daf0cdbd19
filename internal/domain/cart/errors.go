package cart

import "errors"

var ErrEmptyCart = errors.New("cart is empty")
