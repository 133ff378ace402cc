package repository

import (
	"github.com/m-mizutani/agentsweep/pkg/interfaces"
)

var (
	_ interfaces.DocumentStore = (*Firestore)(nil)
	_ interfaces.DocumentStore = (*Memory)(nil)
)
