package computer

import "github.com/pkg/errors"

// ActionKind is one of the closed set of things a terminal option can do
type ActionKind int

const (
	ActionOpen             ActionKind = iota // Open the lab doors
	ActionLock                               // Lock the lab doors
	ActionUnlock                             // Unlock the lab doors
	ActionToll                               // Ring the church bells
	ActionSample                             // Sample the specimen tanks
	ActionReleaseMutagen                     // Release experimental mutagen
	ActionTerminate                          // Terminate held specimens
	ActionPortal                             // Toggle the portal generator
	ActionCascade                            // Start a resonance cascade
	ActionResearch                           // Read research notes
	ActionMaps                               // Download area maps
	ActionMissileLaunch                      // Launch the missile
	ActionMissileDisarm                      // Disarm the missile
	ActionListBionics                        // List stored bionics
	ActionElevatorOn                         // Power the elevator
	ActionDownloadSoftware                   // Download software to a device
	ActionBloodAnalysis                      // Analyse a blood sample
	ActionDataAnalysis                       // Analyse stored data
	ActionDisconnect                         // Disconnect from the network
	ActionEmergencyMessage                   // Read the emergency message
	ActionShutters                           // Toggle the shutters
	ActionIrradiator                         // Run the irradiator
	ActionResetLockout                       // Administrative lockout reset
	ActionShutdown                           // Shut the terminal down

	actionCount // number of action kinds, keep last
)

// ActionInfo holds the catalog metadata for an action kind
type ActionInfo struct {
	Token       string // Persistence and catalog token
	Message     string // Shown after the action runs
	OneShot     bool   // Option is removed after one successful run
	EndsSession bool   // Running the action ends the session
}

// ActionTypes maps every action kind to its metadata
var ActionTypes = map[ActionKind]ActionInfo{
	ActionOpen:             {Token: "open", Message: "Doors opened."},
	ActionLock:             {Token: "lock", Message: "Lock enabled."},
	ActionUnlock:           {Token: "unlock", Message: "Lock disabled."},
	ActionToll:             {Token: "toll", Message: "Bells ringing."},
	ActionSample:           {Token: "sample", Message: "Sample collected."},
	ActionReleaseMutagen:   {Token: "release_mutagen", Message: "Mutagen released."},
	ActionTerminate:        {Token: "terminate", Message: "Specimens terminated."},
	ActionPortal:           {Token: "portal", Message: "Portal field toggled."},
	ActionCascade:          {Token: "cascade", Message: "Resonance cascade initiated.", OneShot: true, EndsSession: true},
	ActionResearch:         {Token: "research", Message: "Research notes displayed."},
	ActionMaps:             {Token: "maps", Message: "Area maps downloaded."},
	ActionMissileLaunch:    {Token: "miss_launch", Message: "Missile launched.", OneShot: true, EndsSession: true},
	ActionMissileDisarm:    {Token: "miss_disarm", Message: "Missile disarmed.", OneShot: true},
	ActionListBionics:      {Token: "list_bionics", Message: "Bionic inventory listed."},
	ActionElevatorOn:       {Token: "elevator_on", Message: "Elevator activated."},
	ActionDownloadSoftware: {Token: "download_software", Message: "Software downloaded.", OneShot: true},
	ActionBloodAnalysis:    {Token: "blood_analysis", Message: "Blood analysis complete."},
	ActionDataAnalysis:     {Token: "data_analysis", Message: "Data analysis complete."},
	ActionDisconnect:       {Token: "disconnect", Message: "Connection terminated.", EndsSession: true},
	ActionEmergencyMessage: {Token: "emerg_mess", Message: "Emergency message displayed."},
	ActionShutters:         {Token: "shutters", Message: "Shutters toggled."},
	ActionIrradiator:       {Token: "irradiator", Message: "Irradiation cycle complete."},
	ActionResetLockout:     {Token: "reset_lockout", Message: "Security lockout cleared."},
	ActionShutdown:         {Token: "shutdown", Message: "Shutting down... press any key.", EndsSession: true},
}

// AllActionKinds returns every action kind in declaration order
func AllActionKinds() []ActionKind {
	kinds := make([]ActionKind, 0, actionCount)
	for k := ActionKind(0); k < actionCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether a is a member of the closed action set
func (a ActionKind) Valid() bool {
	return a >= 0 && a < actionCount
}

func (a ActionKind) String() string {
	if info, ok := ActionTypes[a]; ok {
		return info.Token
	}
	return "unknown_action"
}

// Info returns the metadata for a
func (a ActionKind) Info() ActionInfo {
	return ActionTypes[a]
}

// ParseActionKind maps a catalog token back to its action kind
func ParseActionKind(token string) (ActionKind, error) {
	for k, info := range ActionTypes {
		if info.Token == token {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownAction, "%q", token)
}

// FailureKind is one of the closed set of consequences of a failed hack
type FailureKind int

const (
	FailureShutdown     FailureKind = iota // Terminal shuts down
	FailureAlarm                           // Security alarm sounds
	FailureManhacks                        // Manhacks are released
	FailureSecubots                        // Secubots are dispatched
	FailureDamage                          // Terminal shocks the user
	FailurePumpExplode                     // Pump overloads and explodes
	FailurePumpLeak                        // Pump starts leaking
	FailureAmigara                         // Something stirs underground
	FailureDestroyBlood                    // Blood sample is destroyed
	FailureDestroyData                     // Stored data is wiped
	FailureGarbled                         // Screen fills with gibberish

	failureCount // number of failure kinds, keep last
)

// FailureInfo holds the catalog metadata for a failure kind
type FailureInfo struct {
	Token      string // Persistence and catalog token
	Message    string // Shown when the failure fires
	Terminates bool   // Firing this failure ends the session
}

// FailureTypes maps every failure kind to its metadata
var FailureTypes = map[FailureKind]FailureInfo{
	FailureShutdown:     {Token: "shutdown", Message: "Security system activated. Terminal shutting down.", Terminates: true},
	FailureAlarm:        {Token: "alarm", Message: "Alarm triggered!", Terminates: true},
	FailureManhacks:     {Token: "manhacks", Message: "Manhacks released!", Terminates: true},
	FailureSecubots:     {Token: "secubots", Message: "Secubots dispatched!", Terminates: true},
	FailureDamage:       {Token: "damage", Message: "The console shocks you.", Terminates: true},
	FailurePumpExplode:  {Token: "pump_explode", Message: "The pump explodes!", Terminates: true},
	FailurePumpLeak:     {Token: "pump_leak", Message: "Sewage leaks from the pump!", Terminates: true},
	FailureAmigara:      {Token: "amigara", Message: "The ground begins to shake.", Terminates: true},
	FailureDestroyBlood: {Token: "destroy_blood", Message: "Error: sample destroyed.", Terminates: true},
	FailureDestroyData:  {Token: "destroy_data", Message: "Error: data wiped.", Terminates: true},
	FailureGarbled:      {Token: "garbled", Message: "Display corrupted. Resynchronising...", Terminates: false},
}

// AllFailureKinds returns every failure kind in declaration order
func AllFailureKinds() []FailureKind {
	kinds := make([]FailureKind, 0, failureCount)
	for k := FailureKind(0); k < failureCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether f is a member of the closed failure set
func (f FailureKind) Valid() bool {
	return f >= 0 && f < failureCount
}

func (f FailureKind) String() string {
	if info, ok := FailureTypes[f]; ok {
		return info.Token
	}
	return "unknown_failure"
}

// Info returns the metadata for f
func (f FailureKind) Info() FailureInfo {
	return FailureTypes[f]
}

// ParseFailureKind maps a catalog token back to its failure kind
func ParseFailureKind(token string) (FailureKind, error) {
	for k, info := range FailureTypes {
		if info.Token == token {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownFailure, "%q", token)
}
