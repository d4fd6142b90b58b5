package shell

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/scene"
)

const activationProtocol = "xdg_activation_v1"

// Error code of xdg_activation_token_v1
const ActivationErrorAlreadyUsed = 0

type activationToken struct {
	token  string
	appID  string
	serial uint32
	// Surface the request came from, optional
	surface *scene.Surface
	used    bool
}

// XDGActivation adapts xdg_activation_v1. Clients ask for a token, hand it to another
// client (usually through XDG_ACTIVATION_TOKEN) and that one uses it once to get focus.
// A token outlives its protocol object
type XDGActivation struct {
	scene   *scene.Scene
	objects objects[*activationToken]
	tokens  map[string]*activationToken
}

func NewXDGActivation(sc *scene.Scene) *XDGActivation {
	return &XDGActivation{
		scene:   sc,
		objects: newObjects[*activationToken](activationProtocol),
		tokens:  make(map[string]*activationToken),
	}
}

func (a *XDGActivation) GetActivationToken(id ObjectID) error {
	return a.objects.add(id, &activationToken{})
}

// pending returns the token object as long as it can still be changed
func (a *XDGActivation) pending(id ObjectID) (*activationToken, error) {
	t, err := a.objects.get(id)
	if err != nil {
		return nil, err
	}
	if t.token != "" {
		return nil, protocolError(activationProtocol, id, ErrAlreadyUsed, ActivationErrorAlreadyUsed, "token already committed")
	}
	return t, nil
}

func (a *XDGActivation) SetSerial(id ObjectID, serial uint32) error {
	t, err := a.pending(id)
	if err != nil {
		return err
	}
	t.serial = serial
	return nil
}

func (a *XDGActivation) SetAppID(id ObjectID, appID string) error {
	t, err := a.pending(id)
	if err != nil {
		return err
	}
	t.appID = appID
	return nil
}

func (a *XDGActivation) SetSurface(id ObjectID, s *scene.Surface) error {
	t, err := a.pending(id)
	if err != nil {
		return err
	}
	t.surface = s
	return nil
}

// Commit issues the token string, sent to the client as the done event
func (a *XDGActivation) Commit(id ObjectID) (string, error) {
	t, err := a.pending(id)
	if err != nil {
		return "", err
	}
	t.token = uuid.NewString()
	a.tokens[t.token] = t
	logrus.WithFields(logrus.Fields{"token": t.token, "app-id": t.appID}).Debugln("Issued activation token")
	return t.token, nil
}

func (a *XDGActivation) Destroy(id ObjectID) {
	a.objects.remove(id)
}

// Activate raises and focuses s if token is valid. Unknown tokens are ignored, a token
// used before is a protocol error. Reports whether s got activated
func (a *XDGActivation) Activate(token string, s *scene.Surface) (bool, error) {
	t, ok := a.tokens[token]
	if !ok {
		logrus.WithField("token", token).Debugln("Ignoring activation with unknown token")
		return false, nil
	}
	if t.used {
		return false, protocolError(activationProtocol, 0, ErrAlreadyUsed, ActivationErrorAlreadyUsed, "token has already been used")
	}
	if s == nil || s.Destroyed() {
		return false, nil
	}
	t.used = true
	if s.Minimized() {
		s.SetMinimized(false)
	}
	a.scene.Raise(s)
	a.scene.Activate(s)
	return true, nil
}

// Tokens counts the tokens issued and not yet used
func (a *XDGActivation) Tokens() int {
	n := 0
	for _, t := range a.tokens {
		if !t.used {
			n++
		}
	}
	return n
}
